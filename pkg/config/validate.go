package config

import "fmt"

// ValidationError reports the first schema violation found in a config or
// overlay. Validation is fatal and runs before any browser work starts.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Msg)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks the config against the schema. It returns the first
// violation as a *ValidationError and never coerces values.
func Validate(cfg *Config) error {
	for i, v := range cfg.Viewports {
		field := fmt.Sprintf("viewports[%d]", i)
		if v.ID == "" {
			return invalid(field+".id", "must not be empty")
		}
		if v.Width <= 0 {
			return invalid(field+".width", "must be positive, got %d", v.Width)
		}
		if v.Height <= 0 {
			return invalid(field+".height", "must be positive, got %d", v.Height)
		}
	}
	if err := uniqueIDs("viewports", viewportIDs(cfg.Viewports)); err != nil {
		return err
	}

	for i, s := range cfg.States {
		if s.ID == "" {
			return invalid(fmt.Sprintf("states[%d].id", i), "must not be empty")
		}
	}
	if err := uniqueIDs("states", stateIDs(cfg.States)); err != nil {
		return err
	}

	for i, s := range cfg.Screens {
		field := fmt.Sprintf("screens[%d]", i)
		if s.ID == "" {
			return invalid(field+".id", "must not be empty")
		}
		if s.URL != "" && s.Template != "" {
			return invalid(field, "url and template are mutually exclusive")
		}
		// An empty value list would collapse the variant product to nothing
		// and silently drop the screen from the plan.
		for _, key := range s.Params.Keys() {
			if len(s.Params.Values(key)) == 0 {
				return invalid(fmt.Sprintf("%s.params.%s", field, key), "needs at least one value")
			}
		}
		if s.Ready != nil {
			if err := validateReady(field+".ready", s.Ready); err != nil {
				return err
			}
		}
	}

	for i, f := range cfg.Flows {
		field := fmt.Sprintf("flows[%d]", i)
		if f.ID == "" {
			return invalid(field+".id", "must not be empty")
		}
		for j, step := range f.Steps {
			if err := validateStep(fmt.Sprintf("%s.steps[%d]", field, j), step); err != nil {
				return err
			}
		}
	}

	return nil
}

// Validate checks the selector in isolation, outside of a full config.
// Used by the interactive validateSelector operation.
func (s SelectorSpec) Validate() error {
	return validateSelector("selector", &s)
}

func validateSelector(field string, spec *SelectorSpec) error {
	switch spec.variantCount() {
	case 0:
		return invalid(field, "selector must set one of testId, role, text, css")
	case 1:
		// Role may carry an accessible name; no other variant takes Name.
		if spec.Name != "" && spec.Role == "" {
			return invalid(field+".name", "name is only valid with role")
		}
		return nil
	default:
		return invalid(field, "selector must set exactly one of testId, role, text, css")
	}
}

func validateReady(field string, ready *ReadySpec) error {
	if ready.Selector != nil && ready.TimeoutMs > 0 {
		return invalid(field, "selector and timeoutMs are mutually exclusive")
	}
	if ready.Selector == nil && ready.TimeoutMs <= 0 {
		return invalid(field, "requires a selector or a positive timeoutMs")
	}
	if ready.Selector != nil {
		return validateSelector(field+".selector", ready.Selector)
	}
	return nil
}

func validateStep(field string, step FlowStep) error {
	switch step.Type {
	case StepGoto:
		if step.URL == "" {
			return invalid(field+".url", "goto requires a url")
		}
	case StepClick:
		if step.Selector == nil {
			return invalid(field+".selector", "click requires a selector")
		}
		return validateSelector(field+".selector", step.Selector)
	case StepFill:
		if step.Selector == nil {
			return invalid(field+".selector", "fill requires a selector")
		}
		if step.Value == "" {
			return invalid(field+".value", "fill requires a value")
		}
		return validateSelector(field+".selector", step.Selector)
	case StepPress:
		if step.Selector == nil {
			return invalid(field+".selector", "press requires a selector")
		}
		if step.Key == "" {
			return invalid(field+".key", "press requires a key")
		}
		return validateSelector(field+".selector", step.Selector)
	case StepWaitFor:
		if step.Selector != nil && step.TimeoutMs > 0 {
			return invalid(field, "waitFor selector and timeoutMs are mutually exclusive")
		}
		if step.Selector == nil && step.TimeoutMs <= 0 {
			return invalid(field, "waitFor requires a selector or a positive timeoutMs")
		}
		if step.Selector != nil {
			return validateSelector(field+".selector", step.Selector)
		}
	case StepCapture:
		// Name is optional; a default is synthesized at execution time.
	default:
		return invalid(field+".type", "unknown step type %q", step.Type)
	}
	return nil
}

func uniqueIDs(field string, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if seen[id] {
			return invalid(fmt.Sprintf("%s[%d].id", field, i), "duplicate id %q", id)
		}
		seen[id] = true
	}
	return nil
}

func viewportIDs(vs []Viewport) []string {
	ids := make([]string, len(vs))
	for i, v := range vs {
		ids[i] = v.ID
	}
	return ids
}

func stateIDs(ss []State) []string {
	ids := make([]string, len(ss))
	for i, s := range ss {
		ids[i] = s.ID
	}
	return ids
}
