package validation

// FormErrorKey is the pseudo-field under which form-level errors (such as
// an empty update patch) are reported in the field error map.
const FormErrorKey = "_form"

// Result is the outcome of validating one candidate record. It is always
// returned, never thrown: the caller inspects Valid() and either proceeds
// with the normalized record or displays the field errors.
type Result struct {
	fields map[string]string
	order  []string
}

func newResult() *Result {
	return &Result{fields: make(map[string]string)}
}

// add records a violation for field. All fields are checked on every call,
// but the first rule violated per field wins, later violations for the
// same field are dropped.
func (r *Result) add(field, message string) {
	if _, exists := r.fields[field]; exists {
		return
	}
	r.fields[field] = message
	r.order = append(r.order, field)
}

// Valid reports whether no rule was violated.
func (r *Result) Valid() bool {
	return len(r.fields) == 0
}

// FieldErrors returns the field name to end-user-displayable message map.
// Nil when the record is valid.
func (r *Result) FieldErrors() map[string]string {
	if len(r.fields) == 0 {
		return nil
	}
	return r.fields
}

// Fields returns the violated field names in check order.
func (r *Result) Fields() []string {
	return r.order
}
