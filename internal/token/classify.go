package token

// IsRelationalOp reports whether k is a relational comparison operator:
// == != > >= < <=.
func IsRelationalOp(k Kind) bool {
	switch k {
	case Eq, NotEq, Gt, GtEq, Lt, LtEq:
		return true
	}
	return false
}

// IsOrderingOp is the subset of relational operators that require both
// comparands to be numeric: > >= < <=.
func IsOrderingOp(k Kind) bool {
	switch k {
	case Gt, GtEq, Lt, LtEq:
		return true
	}
	return false
}

// IsAdditiveOp reports whether k is an additive-precedence operator:
// + - or.
func IsAdditiveOp(k Kind) bool {
	switch k {
	case Plus, Minus, Or:
		return true
	}
	return false
}

// IsMultiplicativeOp reports whether k is a multiplicative-precedence
// operator: * / and.
func IsMultiplicativeOp(k Kind) bool {
	switch k {
	case Star, Slash, And:
		return true
	}
	return false
}

// IsExponentOp reports whether k is the exponent operator **.
func IsExponentOp(k Kind) bool {
	return k == StarStar
}

// IsTypeStart reports whether k begins a type specifier: integer float
// boolean string.
func IsTypeStart(k Kind) bool {
	switch k {
	case Integer, Float, Boolean, String:
		return true
	}
	return false
}

// StartsFactor reports whether k can begin a `factor` production.
func StartsFactor(k Kind) bool {
	switch k {
	case Identifier, IntegerLiteral, FloatLiteral, True, False, LParen, Bang:
		return true
	}
	return false
}

// StartsExpression reports whether k can begin a `simple`/`expr`
// production: StartsFactor plus unary minus.
func StartsExpression(k Kind) bool {
	return k == Minus || StartsFactor(k)
}
