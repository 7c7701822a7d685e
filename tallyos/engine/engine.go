// Package engine implements the four-function calculator state machine.
//
// The engine consumes one key at a time and produces the display text after
// each key. It owns two operand buffers (the number being typed before and
// after the operator), the pending operator, and nothing else; rendering and
// key dispatch live with the caller.
package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Op is a binary operator awaiting its second operand.
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	default:
		return ""
	}
}

func (o Op) apply(a, b float64) float64 {
	switch o {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		// Division by zero follows IEEE semantics; the result is formatted,
		// never trapped.
		return a / b
	default:
		return b
	}
}

// KeyKind categorizes a key press.
type KeyKind uint8

const (
	KeyUnknown KeyKind = iota
	KeyDigit
	KeyDecimal
	KeyOperator
	KeySign
	KeyPercent
	KeyEquals
	KeyClear
)

// Key is one key-press event.
type Key struct {
	Kind  KeyKind
	Digit uint8
	Op    Op
}

// DigitKey returns the key for a single digit 0-9.
func DigitKey(d uint8) Key {
	if d > 9 {
		return Key{}
	}
	return Key{Kind: KeyDigit, Digit: d}
}

// OperatorKey returns the key for a binary operator.
func OperatorKey(op Op) Key {
	if op == OpNone {
		return Key{}
	}
	return Key{Kind: KeyOperator, Op: op}
}

var (
	DecimalKey = Key{Kind: KeyDecimal}
	SignKey    = Key{Kind: KeySign}
	PercentKey = Key{Kind: KeyPercent}
	EqualsKey  = Key{Kind: KeyEquals}
	ClearKey   = Key{Kind: KeyClear}
)

var (
	// ErrNoPendingOp reports equals pressed with no operator selected.
	// The engine state and display are left unchanged.
	ErrNoPendingOp = errors.New("equals with no pending operator")

	// ErrBadOperand reports an operand buffer that does not parse as a
	// number. It indicates an internal consistency fault, not user error.
	ErrBadOperand = errors.New("operand does not parse")
)

// operand is the in-progress textual representation of a number.
type operand struct {
	text   string
	hasDot bool
}

func (o *operand) empty() bool { return o.text == "" }

func (o *operand) appendDigit(d uint8) {
	if o.empty() {
		// Fresh number: the digit replaces the "0" placeholder and any
		// stale decimal flag from the buffer's previous life.
		o.text = string('0' + rune(d))
		o.hasDot = false
		return
	}
	o.text += string('0' + rune(d))
}

func (o *operand) appendDot() {
	if o.hasDot {
		return
	}
	if o.empty() {
		o.text = "0"
	}
	o.text += "."
	o.hasDot = true
}

func (o *operand) value() (float64, error) {
	if o.empty() {
		return 0, nil
	}
	v, err := strconv.ParseFloat(o.text, 64)
	if err != nil {
		return 0, ErrBadOperand
	}
	return v, nil
}

// Engine is the calculator state machine.
//
// It is purely reactive and performs no synchronization; callers embedding it
// in a concurrent host must serialize Handle calls.
type Engine struct {
	first   operand
	second  operand
	pending Op
	display string
}

// New returns an engine in its initial state: both buffers empty, no pending
// operator, display "0".
func New() *Engine {
	return &Engine{display: "0"}
}

// Display returns the display text after the most recent key.
func (e *Engine) Display() string { return e.display }

// Pending returns the pending operator, if one is selected.
func (e *Engine) Pending() (Op, bool) {
	return e.pending, e.pending != OpNone
}

// FirstOperand returns the first operand buffer as display text.
func (e *Engine) FirstOperand() string {
	if e.first.empty() {
		return "0"
	}
	return e.first.text
}

// SecondOperand returns the second operand buffer as display text and whether
// the buffer holds any input.
func (e *Engine) SecondOperand() (string, bool) {
	if e.second.empty() {
		return "0", false
	}
	return e.second.text, true
}

// active returns the buffer keystrokes are routed to: the second operand once
// an operator is pending, the first otherwise.
func (e *Engine) active() *operand {
	if e.pending != OpNone {
		return &e.second
	}
	return &e.first
}

// Handle applies one key to the engine and returns the new display text.
//
// Errors are recoverable: on a non-nil error the state and display are
// unchanged. Unknown keys set the display to "0" without touching the
// buffers.
func (e *Engine) Handle(k Key) (string, error) {
	switch k.Kind {
	case KeyDigit:
		e.active().appendDigit(k.Digit)
		e.refresh()

	case KeyDecimal:
		e.active().appendDot()
		e.refresh()

	case KeyOperator:
		// Selecting an operator while one is already pending overwrites it
		// without committing the in-progress computation.
		e.pending = k.Op
		e.second.hasDot = false
		e.refresh()

	case KeySign:
		if e.display != "0" {
			b := e.active()
			if strings.HasPrefix(b.text, "-") {
				b.text = b.text[1:]
			} else {
				b.text = "-" + b.text
			}
			e.refresh()
		}

	case KeyPercent:
		a, err := e.first.value()
		if err != nil {
			return e.display, err
		}
		var r float64
		switch {
		case e.pending == OpNone:
			r = a / 100
		case e.second.empty():
			r = a * a / 100
		default:
			b, err := e.second.value()
			if err != nil {
				return e.display, err
			}
			r = a * b / 100
		}
		e.commit(r)

	case KeyEquals:
		if e.pending == OpNone {
			return e.display, ErrNoPendingOp
		}
		a, err := e.first.value()
		if err != nil {
			return e.display, err
		}
		b := a
		if !e.second.empty() {
			if b, err = e.second.value(); err != nil {
				return e.display, err
			}
		}
		e.commit(e.pending.apply(a, b))

	case KeyClear:
		*e = Engine{display: "0"}

	default:
		e.display = "0"
	}

	return e.display, nil
}

func (e *Engine) refresh() {
	b := e.active()
	if b.empty() {
		e.display = "0"
		return
	}
	e.display = b.text
}

// commit stores a computed result as the new first operand, clears the second
// operand and the pending operator, and updates the display.
func (e *Engine) commit(r float64) {
	s := formatResult(roundResult(r))
	e.first = operand{text: s, hasDot: strings.Contains(s, ".")}
	e.second = operand{}
	e.pending = OpNone
	e.display = s
}

// roundResult suppresses floating-point noise by rounding to 15 fractional
// digits, so 0.1+0.2 displays as 0.3.
func roundResult(v float64) float64 {
	return math.Round(v*1e15) / 1e15
}

func formatResult(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	// Whole-number results display without a trailing decimal point.
	s = strings.TrimSuffix(s, ".0")
	return s
}
