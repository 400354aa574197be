package diagram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator registers the PortConfig rules against MaxPorts.
func newValidator() *validator.Validate {
	v := validator.New()
	portRange := fmt.Sprintf("min=0,max=%d", MaxPorts)
	v.RegisterStructValidationMapRules(map[string]string{
		"Master": portRange,
		"Slave":  portRange,
		"Bidir":  portRange,
	}, PortConfig{})
	return v
}

// PortConfig holds the three port counts chosen when a block is created.
type PortConfig struct {
	Master int
	Slave  int
	Bidir  int
}

// Validate reports ErrInvalidPortConfiguration naming every out-of-range count.
func (pc PortConfig) Validate() error {
	err := validate.Struct(pc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidPortConfiguration, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s=%v (must be %s %s)", strings.ToLower(fe.Field()), fe.Value(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidPortConfiguration, strings.Join(fields, ", "))
}
