// Package order holds the checkout draft, its field-level validation rules,
// and the wire-level payload/result shapes for order submission.
package order

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the accepted payment options. The empty string
// means the user has not chosen yet.
type PaymentMethod string

const (
	PaymentUnset  PaymentMethod = ""
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
)

// ParsePayment maps a form value to a PaymentMethod. Unknown values collapse
// to PaymentUnset so validation reports them as a missing choice.
func ParsePayment(s string) PaymentMethod {
	switch PaymentMethod(s) {
	case PaymentOnline, PaymentCash:
		return PaymentMethod(s)
	default:
		return PaymentUnset
	}
}

// Field names an editable order draft field.
type Field string

const (
	FieldPayment Field = "payment"
	FieldAddress Field = "address"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
)

// FieldErrors maps a draft field to a human-readable validation message.
// The map is sparse and replaced wholesale on every validation pass.
type FieldErrors map[Field]string

// Valid reports whether no field is in error.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

var (
	emailRE = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phoneRE = regexp.MustCompile(`^\+7\d{10}$`)
)

// Validation messages surfaced inline next to the form fields.
const (
	msgEmailAndPhone = "a valid email and phone number are required"
	msgEmail         = "a valid email is required"
	msgPhone         = "a valid phone number is required (+7 and 10 digits)"
	msgAddress       = "a delivery address is required"
	msgPayment       = "a payment method must be chosen"
)

// Draft is the mutable checkout record for one session. Items and Total stay
// empty during interactive editing; they are filled in only when the order is
// handed to the remote client.
type Draft struct {
	Payment PaymentMethod
	Email   string
	Phone   string
	Address string
	Total   decimal.Decimal
	Items   []string
}

// Set assigns value into the named field. Payment values are parsed through
// ParsePayment.
func (d *Draft) Set(field Field, value string) {
	switch field {
	case FieldPayment:
		d.Payment = ParsePayment(value)
	case FieldAddress:
		d.Address = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	}
}

// Reset returns the draft to its empty defaults.
func (d *Draft) Reset() {
	*d = Draft{}
}

// Complete reports whether every interactive field needed for submission has
// been filled in.
func (d *Draft) Complete() bool {
	return d.Address != "" && d.Payment != PaymentUnset && d.Email != "" && d.Phone != ""
}

// Validate recomputes the full error map for the group the edited field
// belongs to: email/phone validate the contacts form, everything else the
// shipping form. The returned map replaces any previous one.
func (d *Draft) Validate(field Field) FieldErrors {
	errs := make(FieldErrors)

	if field == FieldEmail || field == FieldPhone {
		emailBad := !emailRE.MatchString(d.Email)
		phoneBad := !phoneRE.MatchString(d.Phone)
		switch {
		case emailBad && phoneBad:
			errs[FieldEmail] = msgEmailAndPhone
		case emailBad:
			errs[FieldEmail] = msgEmail
		case phoneBad:
			errs[FieldPhone] = msgPhone
		}
		return errs
	}

	// Shipping group. A missing payment choice is reported under the address
	// field, mirroring where the message is displayed on the form.
	if d.Address == "" {
		errs[FieldAddress] = msgAddress
	} else if d.Payment == PaymentUnset {
		errs[FieldAddress] = msgPayment
	}
	return errs
}

// Result is the upstream's answer to a submitted order. A non-empty Error is
// a business-level rejection: the transport succeeded but the order did not.
type Result struct {
	ID    string
	Total decimal.Decimal
	Error string
}

// Rejected reports whether the upstream refused the order.
func (r Result) Rejected() bool {
	return r.Error != ""
}
