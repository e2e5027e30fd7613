package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Address is a value object representing a shipment address snapshot.
// It is immutable - all operations return new Address instances.
// The street line is stored as entered; Street and StreetNumber are
// derived by splitting the line into its name and house-number parts.
type Address struct {
	firstName   string
	lastName    string
	addressLine string
	postcode    string
	city        string
	country     string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithPostcode sets the postal code for the address
func WithPostcode(postcode string) AddressOption {
	return func(a *Address) {
		a.postcode = strings.TrimSpace(postcode)
	}
}

// WithCountry sets the ISO country code for the address
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.ToUpper(strings.TrimSpace(country))
	}
}

// NewAddress creates a new Address with the required fields.
// First name, street line, and city are required; postcode and country
// are optional.
func NewAddress(firstName, lastName, addressLine, city string, opts ...AddressOption) (Address, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	addressLine = strings.TrimSpace(addressLine)
	city = strings.TrimSpace(city)

	if err := validateName(firstName, "first name"); err != nil {
		return Address{}, err
	}
	if err := validateName(lastName, "last name"); err != nil {
		return Address{}, err
	}
	if err := validateAddressLine(addressLine); err != nil {
		return Address{}, err
	}
	if err := validateCity(city); err != nil {
		return Address{}, err
	}

	addr := Address{
		firstName:   firstName,
		lastName:    lastName,
		addressLine: addressLine,
		city:        city,
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if addr.postcode != "" && len(addr.postcode) > 20 {
		return Address{}, fmt.Errorf("postcode cannot exceed 20 characters")
	}
	if addr.country != "" && len(addr.country) != 2 {
		return Address{}, fmt.Errorf("country must be a two-letter ISO code")
	}

	return addr, nil
}

// NewAddressFull creates a new Address with all fields
func NewAddressFull(firstName, lastName, addressLine, postcode, city, country string) (Address, error) {
	return NewAddress(firstName, lastName, addressLine, city, WithPostcode(postcode), WithCountry(country))
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(firstName, lastName, addressLine, city string, opts ...AddressOption) Address {
	addr, err := NewAddress(firstName, lastName, addressLine, city, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (shipments start without one)
func EmptyAddress() Address {
	return Address{}
}

// FirstName returns the recipient first name
func (a Address) FirstName() string {
	return a.firstName
}

// LastName returns the recipient last name
func (a Address) LastName() string {
	return a.lastName
}

// AddressLine returns the raw street line as entered
func (a Address) AddressLine() string {
	return a.addressLine
}

// Postcode returns the postal code
func (a Address) Postcode() string {
	return a.postcode
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// Country returns the ISO country code
func (a Address) Country() string {
	return a.country
}

// Street returns the street-name part of the address line
func (a Address) Street() string {
	street, _ := SplitStreet(a.addressLine)
	return street
}

// StreetNumber returns the house-number part of the address line
func (a Address) StreetNumber() string {
	_, number := SplitStreet(a.addressLine)
	return number
}

// FullName returns "First Last" with a single space between the parts
func (a Address) FullName() string {
	parts := make([]string, 0, 2)
	if a.firstName != "" {
		parts = append(parts, a.firstName)
	}
	if a.lastName != "" {
		parts = append(parts, a.lastName)
	}
	return strings.Join(parts, " ")
}

// IsEmpty returns true if the address carries no data
func (a Address) IsEmpty() bool {
	return a.firstName == "" && a.lastName == "" && a.addressLine == "" &&
		a.postcode == "" && a.city == "" && a.country == ""
}

// String returns a single-line representation of the address
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 4)
	if name := a.FullName(); name != "" {
		parts = append(parts, name)
	}
	if a.addressLine != "" {
		parts = append(parts, a.addressLine)
	}
	if a.postcode != "" || a.city != "" {
		parts = append(parts, strings.TrimSpace(a.postcode+" "+a.city))
	}
	if a.country != "" {
		parts = append(parts, a.country)
	}
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.firstName == other.firstName &&
		a.lastName == other.lastName &&
		a.addressLine == other.addressLine &&
		a.postcode == other.postcode &&
		a.city == other.city &&
		a.country == other.country
}

// SplitStreet splits a free-form street line into (street, number).
// The number is the longest trailing run of whitespace-separated tokens
// that start with a digit or consist only of unit separators, so
// "Musterstr. 12" yields ("Musterstr.", "12") and "Hauptstraße 12a-14"
// yields ("Hauptstraße", "12a-14"). Lines without a detectable number
// return the full line as street and an empty number.
func SplitStreet(line string) (street, number string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}

	tokens := strings.Fields(line)
	split := len(tokens)
	for i := len(tokens) - 1; i > 0; i-- {
		if isNumberToken(tokens[i]) {
			split = i
			continue
		}
		break
	}

	if split == len(tokens) {
		// No separate number token; try splitting the last token at its
		// first digit ("Musterstr.12").
		last := tokens[len(tokens)-1]
		for idx, r := range last {
			if unicode.IsDigit(r) && idx > 0 {
				prefix := strings.Join(tokens[:len(tokens)-1], " ")
				street = strings.TrimSpace(prefix + " " + last[:idx])
				return street, last[idx:]
			}
			if unicode.IsDigit(r) {
				break
			}
		}
		return line, ""
	}

	return strings.Join(tokens[:split], " "), strings.Join(tokens[split:], " ")
}

func isNumberToken(token string) bool {
	if token == "" {
		return false
	}
	onlySeparators := true
	for _, r := range token {
		if r != '-' && r != '/' {
			onlySeparators = false
			break
		}
	}
	if onlySeparators {
		return true
	}
	r := []rune(token)[0]
	return unicode.IsDigit(r)
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AddressLine string `json:"address_1"`
	Postcode    string `json:"postcode,omitempty"`
	City        string `json:"city"`
	Country     string `json:"country,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		FirstName:   a.firstName,
		LastName:    a.lastName,
		AddressLine: a.addressLine,
		Postcode:    a.postcode,
		City:        a.city,
		Country:     a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Empty payloads yield an
// empty address; non-empty payloads go through the validating factory.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v.FirstName == "" && v.LastName == "" && v.AddressLine == "" && v.City == "" {
		*a = EmptyAddress()
		return nil
	}

	addr, err := NewAddressFull(v.FirstName, v.LastName, v.AddressLine, v.Postcode, v.City, v.Country)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer for database storage (JSON column)
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}

// Validation functions

func validateName(name, label string) error {
	if name == "" {
		return fmt.Errorf("%s cannot be empty", label)
	}
	if len(name) > 100 {
		return fmt.Errorf("%s cannot exceed 100 characters", label)
	}
	return nil
}

func validateAddressLine(line string) error {
	if line == "" {
		return fmt.Errorf("street line cannot be empty")
	}
	if len(line) > 255 {
		return fmt.Errorf("street line cannot exceed 255 characters")
	}
	return nil
}

func validateCity(city string) error {
	if city == "" {
		return fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return fmt.Errorf("city cannot exceed 100 characters")
	}
	return nil
}
