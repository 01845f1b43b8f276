// Package fiscalcode validates Italian fiscal codes (codice fiscale): formal
// correctness plus coherence with the person data supplied on the payment form.
package fiscalcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type RealtimeResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// PersonContext carries the form data cross-checked against the code. A zero
// BirthDate or empty Name skips the corresponding check.
type PersonContext struct {
	Name      string
	BirthDate time.Time
}

var formatPattern = regexp.MustCompile(`^[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]$`)

// Month letters are not sequential: H, L, M, P, R, S, T cover June onward.
var monthCodes = map[int]byte{
	1: 'A', 2: 'B', 3: 'C', 4: 'D', 5: 'E', 6: 'H',
	7: 'L', 8: 'M', 9: 'P', 10: 'R', 11: 'S', 12: 'T',
}

var oddChars = map[byte]int{
	'0': 1, '1': 0, '2': 5, '3': 7, '4': 9, '5': 13, '6': 15, '7': 17, '8': 19, '9': 21,
	'A': 1, 'B': 0, 'C': 5, 'D': 7, 'E': 9, 'F': 13, 'G': 15, 'H': 17, 'I': 19, 'J': 21,
	'K': 2, 'L': 4, 'M': 18, 'N': 20, 'O': 11, 'P': 3, 'Q': 6, 'R': 8, 'S': 12, 'T': 14,
	'U': 16, 'V': 10, 'W': 22, 'X': 25, 'Y': 24, 'Z': 23,
}

var evenChars = map[byte]int{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'A': 0, 'B': 1, 'C': 2, 'D': 3, 'E': 4, 'F': 5, 'G': 6, 'H': 7, 'I': 8, 'J': 9,
	'K': 10, 'L': 11, 'M': 12, 'N': 13, 'O': 14, 'P': 15, 'Q': 16, 'R': 17, 'S': 18, 'T': 19,
	'U': 20, 'V': 21, 'W': 22, 'X': 23, 'Y': 24, 'Z': 25,
}

const checkChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Format normalizes a fiscal code: uppercase, whitespace stripped.
func Format(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// CheckChar computes the expected 16th character from the first 15.
func CheckChar(code string) byte {
	sum := 0
	for i := 0; i < 15 && i < len(code); i++ {
		if i%2 == 0 {
			sum += oddChars[code[i]]
		} else {
			sum += evenChars[code[i]]
		}
	}
	return checkChars[sum%26]
}

// CheckFormat verifies length, character pattern and the check character of a
// code already normalized with Format. It returns the first failure message.
func CheckFormat(code string) (bool, string) {
	if len(code) != 16 {
		return false, "fiscal code must be 16 characters long"
	}
	if !formatPattern.MatchString(code) {
		return false, "fiscal code format is not valid"
	}
	if expected := CheckChar(code); code[15] != expected {
		return false, fmt.Sprintf("wrong check character (expected: %c)", expected)
	}
	return true, ""
}

// ExtractBirthDate decodes the birth date encoded in characters 7-11. The
// two-digit year is windowed to the 1900s or 2000s with a pivot at the current
// two-digit year. The boolean is false when the month letter cannot be decoded.
func ExtractBirthDate(code string) (time.Time, bool) {
	if len(code) != 16 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(code[6:8])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(code[9:11])
	if err != nil {
		return time.Time{}, false
	}
	if day > 40 {
		day -= 40
	}

	month := 0
	for m, letter := range monthCodes {
		if letter == code[8] {
			month = m
			break
		}
	}
	if month == 0 {
		return time.Time{}, false
	}

	currentYear := time.Now().Year() % 100
	if year > currentYear {
		year += 1900
	} else {
		year += 2000
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// ExtractGender reports 'F' when the day field carries the +40 female offset.
func ExtractGender(code string) (byte, bool) {
	if len(code) != 16 {
		return 0, false
	}
	day, err := strconv.Atoi(code[9:11])
	if err != nil {
		return 0, false
	}
	if day > 40 {
		return 'F', true
	}
	return 'M', true
}

func consonants(s string) string {
	return keepRunes(strings.ToUpper(s), "BCDFGHJKLMNPQRSTVWXYZ")
}

func vowels(s string) string {
	return keepRunes(strings.ToUpper(s), "AEIOU")
}

func keepRunes(s, allowed string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(allowed, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate runs the full format, checksum and coherence checks. Warnings never
// affect validity; only errors do.
func Validate(code string, person PersonContext) ValidationResult {
	var errs, warnings []string
	fc := Format(code)

	valid, message := CheckFormat(fc)
	if !valid {
		return ValidationResult{Valid: false, Errors: []string{message}, Warnings: warnings}
	}

	if !person.BirthDate.IsZero() {
		extracted, ok := ExtractBirthDate(fc)
		if !ok {
			warnings = append(warnings, "could not extract the birth date from the fiscal code")
		} else if extracted.Day() != person.BirthDate.Day() ||
			extracted.Month() != person.BirthDate.Month() ||
			extracted.Year() != person.BirthDate.Year() {
			errs = append(errs, fmt.Sprintf(
				"the birth date in the fiscal code (%s) does not match the provided one (%s)",
				extracted.Format("02/01/2006"), person.BirthDate.Format("02/01/2006"),
			))
		}
	}

	if person.Name != "" {
		nameParts := strings.Fields(person.Name)
		if len(nameParts) >= 2 {
			surname := nameParts[len(nameParts)-1]
			expected := consonants(surname) + vowels(surname)
			for len(expected) < 3 {
				expected += "X"
			}
			if fc[0:3] != expected[0:3] {
				// Particles and double surnames legitimately diverge, so this
				// can only ever be a warning.
				warnings = append(warnings, "the surname may not match the fiscal code, check that the order is Name Surname")
			}
		}
	}

	if gender, ok := ExtractGender(fc); ok {
		warnings = append(warnings, fmt.Sprintf("sex derived from the fiscal code: %c", gender))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs, Warnings: warnings}
}

// ValidateRealtime is the cheap incremental check used while the patient is
// still typing: length progress and format only, no cross-checks.
func ValidateRealtime(code string) RealtimeResult {
	fc := Format(code)

	if len(fc) == 0 {
		return RealtimeResult{Valid: true}
	}
	if len(fc) < 16 {
		return RealtimeResult{Valid: false, Message: fmt.Sprintf("characters: %d/16", len(fc))}
	}
	if valid, message := CheckFormat(fc); !valid {
		return RealtimeResult{Valid: false, Message: message}
	}
	return RealtimeResult{Valid: true, Message: "format valid"}
}
