package forms

import "context"

// Values maps field names to submitted values.
type Values map[string]string

// Errors maps field names to their validation messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

type Field struct {
	Name    string
	Label   string
	Secret  bool
	Filters []Filter
	Rules   []Rule
}

type Form struct {
	Fields []Field
}

// Names lists the fields in declaration order.
func (f Form) Names() []string {
	names := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		names[i] = field.Name
	}
	return names
}

// Validate filters the raw values and runs every field's rules. The returned
// values hold the filtered input for all declared fields.
func (f Form) Validate(ctx context.Context, raw Values) (Values, Errors, error) {
	clean := make(Values, len(f.Fields))
	for _, field := range f.Fields {
		v := raw[field.Name]
		for _, filter := range field.Filters {
			v = filter(v)
		}
		clean[field.Name] = v
	}

	errs := Errors{}
	for _, field := range f.Fields {
		for _, rule := range field.Rules {
			msg, err := rule(ctx, clean[field.Name], clean)
			if err != nil {
				return clean, nil, err
			}
			if msg != "" {
				errs.Add(field.Name, msg)
				break
			}
		}
	}
	return clean, errs, nil
}

// Echo returns the values safe to render back into the form.
func (f Form) Echo(values Values) Values {
	out := make(Values, len(f.Fields))
	for _, field := range f.Fields {
		if field.Secret {
			continue
		}
		out[field.Name] = values[field.Name]
	}
	return out
}
