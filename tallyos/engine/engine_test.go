package engine

import "testing"

// press feeds a key script to the engine: digits, '.', the four operators
// (+ - * /), '%', '=', 's' for sign toggle and 'c' for clear. It returns the
// display after the last key and the last non-nil error, if any.
func press(t *testing.T, e *Engine, script string) (string, error) {
	t.Helper()
	display := e.Display()
	var lastErr error
	for _, r := range script {
		var k Key
		switch {
		case r >= '0' && r <= '9':
			k = DigitKey(uint8(r - '0'))
		case r == '.':
			k = DecimalKey
		case r == '+':
			k = OperatorKey(OpAdd)
		case r == '-':
			k = OperatorKey(OpSub)
		case r == '*':
			k = OperatorKey(OpMul)
		case r == '/':
			k = OperatorKey(OpDiv)
		case r == 's':
			k = SignKey
		case r == '%':
			k = PercentKey
		case r == '=':
			k = EqualsKey
		case r == 'c':
			k = ClearKey
		default:
			t.Fatalf("bad script rune %q", r)
		}
		var err error
		display, err = e.Handle(k)
		if err != nil {
			lastErr = err
		}
	}
	return display, lastErr
}

func expectDisplay(t *testing.T, script, want string) {
	t.Helper()
	e := New()
	got, err := press(t, e, script)
	if err != nil {
		t.Fatalf("script %q: unexpected error: %v", script, err)
	}
	if got != want {
		t.Fatalf("script %q: expected display %q, got %q", script, want, got)
	}
}

func TestInitialDisplay(t *testing.T) {
	e := New()
	if got := e.Display(); got != "0" {
		t.Fatalf("expected initial display 0, got %q", got)
	}
}

func TestDigitsEchoVerbatim(t *testing.T) {
	for _, digits := range []string{"1", "42", "123456789", "05", "007", "000"} {
		expectDisplay(t, digits, digits)
	}
}

func TestDecimalEntry(t *testing.T) {
	expectDisplay(t, "1.5", "1.5")
	// Decimal on an empty buffer inserts the leading zero.
	expectDisplay(t, ".5", "0.5")
	// A second decimal point in the same buffer is ignored.
	expectDisplay(t, "1..5", "1.5")
	expectDisplay(t, "1.2.3", "1.23")
}

func TestAddWithDecimals(t *testing.T) {
	expectDisplay(t, "1.5+2.5=", "4")
}

func TestSubtract(t *testing.T) {
	expectDisplay(t, "7-9=", "-2")
}

func TestMultiplyDivide(t *testing.T) {
	expectDisplay(t, "6*7=", "42")
	expectDisplay(t, "9/4=", "2.25")
}

func TestFloatNoiseRounded(t *testing.T) {
	expectDisplay(t, "0.1+0.2=", "0.3")
}

func TestEqualsWithEmptySecondDoubles(t *testing.T) {
	expectDisplay(t, "5+=", "10")
	expectDisplay(t, "3*=", "9")
}

func TestResultFeedsNextComputation(t *testing.T) {
	expectDisplay(t, "1+2=+4=", "7")
}

func TestOperatorOverwriteDoesNotCommit(t *testing.T) {
	// The second operator replaces the first without evaluating 5+3.
	expectDisplay(t, "5+3*=", "15")
	// With an empty second operand the overwritten operator doubles/squares.
	expectDisplay(t, "5+*=", "25")
}

func TestDisplayTracksActiveBuffer(t *testing.T) {
	e := New()
	if got, _ := press(t, e, "5+"); got != "0" {
		t.Fatalf("expected display 0 after operator (empty second operand), got %q", got)
	}
	if got, _ := press(t, e, "3"); got != "3" {
		t.Fatalf("expected display 3, got %q", got)
	}
}

func TestPercentNoPendingOperator(t *testing.T) {
	expectDisplay(t, "50%", "0.5")
}

func TestPercentEmptySecondSquares(t *testing.T) {
	expectDisplay(t, "4+%", "0.16")
}

func TestPercentWithSecondOperand(t *testing.T) {
	expectDisplay(t, "200+10%", "20")
}

func TestPercentClearsPendingOperator(t *testing.T) {
	e := New()
	if _, err := press(t, e, "4+%"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.Pending(); ok {
		t.Fatal("expected no pending operator after percent")
	}
	if _, err := e.Handle(EqualsKey); err != ErrNoPendingOp {
		t.Fatalf("expected ErrNoPendingOp after percent commit, got %v", err)
	}
}

func TestSignToggle(t *testing.T) {
	// No-op on "0".
	expectDisplay(t, "s", "0")
	expectDisplay(t, "5s", "-5")
	expectDisplay(t, "5ss", "5")
	// Sign applies to the active buffer: here the second operand.
	expectDisplay(t, "8-3s=", "11")
}

func TestClearFromAnyState(t *testing.T) {
	for _, script := range []string{"c", "123c", "1.5+c", "5+3c", "9/0=c", "=c"} {
		e := New()
		got, _ := press(t, e, script)
		if got != "0" {
			t.Fatalf("script %q: expected display 0 after clear, got %q", script, got)
		}
		if _, ok := e.Pending(); ok {
			t.Fatalf("script %q: expected no pending operator after clear", script)
		}
	}
}

func TestEqualsWithoutOperator(t *testing.T) {
	e := New()
	got, err := e.Handle(EqualsKey)
	if err != ErrNoPendingOp {
		t.Fatalf("expected ErrNoPendingOp, got %v", err)
	}
	if got != "0" {
		t.Fatalf("expected display unchanged at 0, got %q", got)
	}

	if _, err := press(t, e, "57"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = e.Handle(EqualsKey)
	if err != ErrNoPendingOp {
		t.Fatalf("expected ErrNoPendingOp, got %v", err)
	}
	if got != "57" {
		t.Fatalf("expected display unchanged at 57, got %q", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	e := New()
	got, err := press(t, e, "5/0=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+Inf" {
		t.Fatalf("expected +Inf, got %q", got)
	}

	e = New()
	got, _ = press(t, e, "5s/0=")
	if got != "-Inf" {
		t.Fatalf("expected -Inf, got %q", got)
	}

	e = New()
	got, _ = press(t, e, "0/0=")
	if got != "NaN" {
		t.Fatalf("expected NaN, got %q", got)
	}
}

func TestUnknownKeyShowsZeroWithoutMutation(t *testing.T) {
	e := New()
	if _, err := press(t, e, "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := e.Handle(Key{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0" {
		t.Fatalf("expected display 0 for unknown key, got %q", got)
	}
	// The buffer is untouched: the next digit appends to it.
	if got, _ := press(t, e, "7"); got != "427" {
		t.Fatalf("expected 427 after unknown key, got %q", got)
	}
}

func TestOperatorResetsSecondDecimalFlag(t *testing.T) {
	// 1.5 + 2.5 = 4, then * .25 must accept the fresh decimal point.
	expectDisplay(t, "1.5+2.5=*.25=", "1")
}

func TestAccessors(t *testing.T) {
	e := New()
	if _, err := press(t, e, "12+34"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := e.FirstOperand(); got != "12" {
		t.Fatalf("expected first operand 12, got %q", got)
	}
	second, ok := e.SecondOperand()
	if !ok || second != "34" {
		t.Fatalf("expected second operand 34, got %q ok=%v", second, ok)
	}
	op, ok := e.Pending()
	if !ok || op != OpAdd {
		t.Fatalf("expected pending +, got %s ok=%v", op, ok)
	}

	e = New()
	if got := e.FirstOperand(); got != "0" {
		t.Fatalf("expected empty first operand to read 0, got %q", got)
	}
	if _, ok := e.SecondOperand(); ok {
		t.Fatal("expected empty second operand")
	}
}

func TestWholeNumberResultHasNoTrailingPoint(t *testing.T) {
	expectDisplay(t, "2.5+2.5=", "5")
	expectDisplay(t, "2.5*4=", "10")
}

func TestOpString(t *testing.T) {
	cases := map[Op]string{OpAdd: "+", OpSub: "-", OpMul: "×", OpDiv: "÷", OpNone: ""}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Fatalf("Op(%d): expected %q, got %q", op, want, got)
		}
	}
}
