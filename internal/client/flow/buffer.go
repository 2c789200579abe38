package flow

import (
	"strings"
	"sync"
)

// OTPLength is the number of digits of a one-time code.
const OTPLength = 6

// OTPBuffer holds the digits typed so far and the focused position. Every
// position is either empty or a single ASCII digit.
type OTPBuffer struct {
	mu     sync.Mutex
	digits [OTPLength]string
	focus  int
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Input sets position i to s, which must be empty or one digit. A digit
// moves focus to the next position. Rejected input changes nothing.
func (b *OTPBuffer) Input(i int, s string) bool {
	if i < 0 || i >= OTPLength {
		return false
	}
	if s != "" && (len(s) != 1 || !isDigit(rune(s[0]))) {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.digits[i] = s
	b.focus = i
	if s != "" && i < OTPLength-1 {
		b.focus = i + 1
	}
	return true
}

// Backspace clears position i, or moves focus back when it is already empty.
func (b *OTPBuffer) Backspace(i int) {
	if i < 0 || i >= OTPLength {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.digits[i] != "" {
		b.digits[i] = ""
		b.focus = i
		return
	}
	if i > 0 {
		b.focus = i - 1
	}
}

// Paste fills the buffer from position 0 when every character of s is a
// digit, truncating to OTPLength, and focuses the last filled position.
// Anything else leaves the buffer as is.
func (b *OTPBuffer) Paste(s string) bool {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return !isDigit(r) }) >= 0 {
		return false
	}
	if len(s) > OTPLength {
		s = s[:OTPLength]
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.digits = [OTPLength]string{}
	for i, r := range s {
		b.digits[i] = string(r)
	}
	b.focus = min(len(s)-1, OTPLength-1)
	return true
}

// Complete reports whether every position holds a digit.
func (b *OTPBuffer) Complete() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, d := range b.digits {
		if d == "" {
			return false
		}
	}
	return true
}

// Code joins the digits in order.
func (b *OTPBuffer) Code() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.digits[:], "")
}

func (b *OTPBuffer) Digits() [OTPLength]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.digits
}

func (b *OTPBuffer) Focus() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focus
}

func (b *OTPBuffer) SetFocus(i int) {
	if i < 0 || i >= OTPLength {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focus = i
}

func (b *OTPBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.digits = [OTPLength]string{}
	b.focus = 0
}
