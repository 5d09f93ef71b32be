package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// productGIDPrefix is the namespace Shopify uses for product global ids
const productGIDPrefix = "gid://shopify/Product/"

// ProductID identifies a catalog product. The catalog addresses it as
// gid://shopify/Product/<n>; routes only carry <n>.
type ProductID struct {
	numeric uint64
}

// FromLocalID builds a ProductID from the numeric route segment
func FromLocalID(local string) (ProductID, error) {
	if local == "" || strings.TrimSpace(local) != local {
		return ProductID{}, fmt.Errorf("%w: %q", ErrInvalidProductID, local)
	}
	n, err := strconv.ParseUint(local, 10, 64)
	if err != nil || n == 0 {
		return ProductID{}, fmt.Errorf("%w: %q", ErrInvalidProductID, local)
	}
	return ProductID{numeric: n}, nil
}

// ParseExternalID parses a catalog global id
func ParseExternalID(gid string) (ProductID, error) {
	local, ok := strings.CutPrefix(gid, productGIDPrefix)
	if !ok {
		return ProductID{}, fmt.Errorf("%w: %q", ErrInvalidProductID, gid)
	}
	return FromLocalID(local)
}

// ExternalID returns the catalog global id
func (id ProductID) ExternalID() string {
	return productGIDPrefix + id.LocalID()
}

// LocalID returns the numeric segment used in routing paths
func (id ProductID) LocalID() string {
	return strconv.FormatUint(id.numeric, 10)
}

// IsZero reports whether the id was never set
func (id ProductID) IsZero() bool {
	return id.numeric == 0
}

func (id ProductID) String() string {
	return id.ExternalID()
}

// MarshalText encodes the id in its external form
func (id ProductID) MarshalText() ([]byte, error) {
	if id.IsZero() {
		return []byte{}, nil
	}
	return []byte(id.ExternalID()), nil
}

// UnmarshalText accepts either the external or the local form
func (id *ProductID) UnmarshalText(text []byte) error {
	s := string(text)
	var (
		parsed ProductID
		err    error
	)
	if strings.HasPrefix(s, productGIDPrefix) {
		parsed, err = ParseExternalID(s)
	} else {
		parsed, err = FromLocalID(s)
	}
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
