package registry

import (
	"strconv"
	"strings"

	"github.com/gookit/validate"
)

// Input is what the add-plant form submits.
type Input struct {
	Name      string `json:"name" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Frequency int    `json:"frequency" validate:"required|min:1"`
	Photo     []byte `json:"-"`
}

// InputFromForm builds an Input from raw form strings. A frequency that is
// not an integer becomes 0 and fails validation.
func InputFromForm(name, plantType, frequency string, photo []byte) Input {
	freq, err := strconv.Atoi(strings.TrimSpace(frequency))
	if err != nil {
		freq = 0
	}
	return Input{
		Name:      name,
		Type:      plantType,
		Frequency: freq,
		Photo:     photo,
	}
}

func (in Input) normalized() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	return in
}

// Validate trims and checks the input. It returns a *ValidationError listing
// every failing field.
func (in Input) Validate() error {
	in = in.normalized()

	v := validate.Struct(&in)
	v.StopOnError = false
	if v.Validate() {
		return nil
	}

	fields := make(map[string]string)
	for field, msgs := range v.Errors.All() {
		for _, msg := range msgs {
			fields[strings.ToLower(field)] = msg
			break
		}
	}
	return &ValidationError{Message: MsgRequiredFields, Fields: fields}
}
