package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	ErrUnsupportedTypeConversion = errors.New("unsupported type conversion")
	ErrParseBool                 = errors.New("could not parse bool")
	ErrParseInt64                = errors.New("could not parse int64")
	ErrParseFloat64              = errors.New("could not parse float64")
	ErrParseTime                 = errors.New("could not parse time")
)

// ConvertString assigns the string representation of an option value to the
// variable pointed at by data. Lists are split on ',' - the canonical
// rendering produced by the binder.
func ConvertString(value string, data any) error {
	switch t := data.(type) {
	case *string:
		*t = value
	case *[]string:
		if value == "" {
			*t = []string{}
		} else {
			*t = strings.Split(value, ",")
		}
	case *bool:
		val, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrParseBool, value)
		}
		*t = val
	case *int64:
		val, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrParseInt64, value)
		}
		*t = val
	case *float64:
		val, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrParseFloat64, value)
		}
		*t = val
	case *time.Time:
		val, err := dateparse.ParseLocal(value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrParseTime, value)
		}
		*t = val
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedTypeConversion, data)
	}

	return nil
}
