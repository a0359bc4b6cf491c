package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Data types understood by API filters and fields.
const (
	DataTypeInteger     = "integer"
	DataTypeSmallInt    = "smallint"
	DataTypeBigInt      = "bigint"
	DataTypeDecimal     = "decimal"
	DataTypeFloat       = "float"
	DataTypeBoolean     = "boolean"
	DataTypeString      = "string"
	DataTypeText        = "text"
	DataTypeDate        = "date"
	DataTypeTime        = "time"
	DataTypeDateTime    = "datetime"
	DataTypeGUID        = "guid"
	DataTypeObject      = "object"
	DataTypeAssociation = "association"
)

// Filter option keys attached to extended association filters.
const (
	OptionAssociationOwnerClass = "associationOwnerClass"
	OptionAssociationType       = "associationType"
	OptionAssociationKind       = "associationKind"
)

const extendedAssociationPrefix = DataTypeAssociation + ":"

// ErrInvalidExtendedAssociation is returned when an association data type has no relation type.
var ErrInvalidExtendedAssociation = errors.New("invalid extended association data type")

// IsExtendedAssociation reports whether dataType has the form association:<type>[:<kind>].
func IsExtendedAssociation(dataType string) bool {
	return strings.HasPrefix(dataType, extendedAssociationPrefix)
}

// ParseExtendedAssociation splits an extended association data type into its
// relation type and optional kind. The kind is empty when absent.
func ParseExtendedAssociation(dataType string) (associationType, associationKind string, err error) {
	if !IsExtendedAssociation(dataType) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidExtendedAssociation, dataType)
	}

	parts := strings.SplitN(strings.TrimPrefix(dataType, extendedAssociationPrefix), ":", 2)
	associationType = parts[0]
	if associationType == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidExtendedAssociation, dataType)
	}
	if len(parts) == 2 {
		associationKind = parts[1]
	}

	return associationType, associationKind, nil
}
