package selector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type syntaxError struct {
	off int
	msg string
}

type parser struct {
	src string
	pos int
}

func (p *parser) fail(format string, args ...interface{}) {
	panic(syntaxError{off: p.pos, msg: fmt.Sprintf(format, args...)})
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) spaces() bool {
	start := p.pos
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
			continue
		}
		break
	}
	return p.pos > start
}

func (p *parser) expect(s string) {
	if !strings.HasPrefix(p.src[p.pos:], s) {
		p.unexpected("%q", s)
	}
	p.pos += len(s)
}

func (p *parser) unexpected(exp string, args ...interface{}) {
	found := "end of input"
	if !p.eof() {
		found = strconv.Quote(string(p.src[p.pos]))
	}
	p.fail("expected %s, found %s", fmt.Sprintf(exp, args...), found)
}

// isNameChar reports if the character can be a part of a type or attribute name.
func isNameChar(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '[', ']', ',', '(', ')', ':', '#', '!', '=', '>', '<', '~', '+', '.', '"', '\'', '/', '*':
		return false
	}
	return true
}

func (p *parser) name() string {
	start := p.pos
	for !p.eof() && isNameChar(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		p.unexpected("a name")
	}
	return p.src[start:p.pos]
}

// parse parses a comma-separated list of selectors.
func parse(src string) (m matcher, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(syntaxError)
			if !ok {
				panic(r)
			}
			err = ErrSyntax.New(src, e.off, e.msg)
		}
	}()
	p := &parser{src: src}
	p.spaces()
	m = p.selectors()
	p.spaces()
	if !p.eof() {
		p.unexpected("end of selector")
	}
	return m, nil
}

func (p *parser) selectors() matcher {
	list := []matcher{p.selector()}
	for {
		save := p.pos
		p.spaces()
		if p.peek() != ',' {
			p.pos = save
			break
		}
		p.pos++
		p.spaces()
		list = append(list, p.selector())
	}
	if len(list) == 1 {
		return list[0]
	}
	return anyOf{list: list}
}

func (p *parser) combinatorOp() (byte, bool) {
	save := p.pos
	sp := p.spaces()
	switch c := p.peek(); c {
	case '>', '~', '+':
		p.pos++
		p.spaces()
		return c, true
	case 0, ',', ')':
		p.pos = save
		return 0, false
	}
	if sp {
		return ' ', true
	}
	p.pos = save
	return 0, false
}

func (p *parser) selector() matcher {
	left := p.sequence()
	for {
		op, ok := p.combinatorOp()
		if !ok {
			return left
		}
		left = combinator{op: op, left: left, right: p.sequence()}
	}
}

func (p *parser) sequence() matcher {
	var list []matcher
	for !p.eof() {
		a, ok := p.atom()
		if !ok {
			break
		}
		list = append(list, a)
	}
	switch len(list) {
	case 0:
		p.unexpected("a selector")
	case 1:
		return list[0]
	}
	return compound{list: list}
}

func (p *parser) atom() (matcher, bool) {
	switch c := p.peek(); {
	case c == '*':
		p.pos++
		return wildcard{}, true
	case c == '#':
		p.pos++
		return typeName{name: p.name()}, true
	case c == '[':
		return p.attribute(), true
	case c == '.':
		return p.field(), true
	case c == ':':
		return p.pseudo(), true
	case isNameChar(c) && c != 0:
		return typeName{name: p.name()}, true
	}
	return nil, false
}

func (p *parser) field() matcher {
	var path []string
	for p.peek() == '.' {
		p.pos++
		path = append(path, p.name())
	}
	return field{path: path}
}

func (p *parser) attrName() []string {
	path := []string{p.name()}
	for p.peek() == '.' {
		p.pos++
		path = append(path, p.name())
	}
	return path
}

func (p *parser) attribute() matcher {
	p.expect("[")
	p.spaces()
	a := attribute{path: p.attrName()}
	p.spaces()
	switch c := p.peek(); c {
	case ']':
		p.pos++
		return a
	case '=':
		a.op = "="
		p.pos++
	case '!':
		p.expect("!=")
		a.op = "!="
	case '<', '>':
		p.pos++
		a.op = string(c)
		if p.peek() == '=' {
			p.pos++
			a.op += "="
		}
	default:
		p.unexpected("an attribute operator or %q", "]")
	}
	p.spaces()
	a.value = p.attrValue(a.op == "=" || a.op == "!=")
	p.spaces()
	p.expect("]")
	return a
}

func (p *parser) attrValue(eq bool) attrValue {
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		return attrValue{kind: valueLiteral, str: p.quoted()}
	case eq && c == '/':
		return p.regexp()
	case eq && strings.HasPrefix(p.src[p.pos:], "type("):
		p.pos += len("type(")
		p.spaces()
		start := p.pos
		for !p.eof() && p.peek() != ')' && p.peek() != ' ' {
			p.pos++
		}
		if start == p.pos {
			p.unexpected("a type name")
		}
		v := attrValue{kind: valueType, str: p.src[start:p.pos]}
		p.spaces()
		p.expect(")")
		return v
	case c >= '0' && c <= '9' || c == '.' || c == '-':
		start := p.pos
		if c == '-' {
			p.pos++
		}
		for !p.eof() && (p.peek() >= '0' && p.peek() <= '9' || p.peek() == '.') {
			p.pos++
		}
		f, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			p.pos = start
			p.unexpected("a number")
		}
		return attrValue{kind: valueNumber, num: f, str: formatNumber(f)}
	}
	return attrValue{kind: valueLiteral, str: p.name()}
}

func (p *parser) quoted() string {
	q := p.peek()
	p.pos++
	var buf strings.Builder
	for {
		if p.eof() {
			p.unexpected("closing quote")
		}
		c := p.src[p.pos]
		p.pos++
		switch c {
		case q:
			return buf.String()
		case '\\':
			if p.eof() {
				p.unexpected("an escaped character")
			}
			e := p.src[p.pos]
			p.pos++
			switch e {
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			case 'r':
				buf.WriteByte('\r')
			default:
				buf.WriteByte(e)
			}
		default:
			buf.WriteByte(c)
		}
	}
}

func (p *parser) regexp() attrValue {
	start := p.pos
	p.expect("/")
	var pat strings.Builder
	for {
		if p.eof() {
			p.unexpected("end of a regular expression")
		}
		c := p.src[p.pos]
		p.pos++
		if c == '/' {
			break
		} else if c == '\\' && !p.eof() {
			pat.WriteByte(c)
			c = p.src[p.pos]
			p.pos++
		}
		pat.WriteByte(c)
	}
	if pat.Len() == 0 {
		p.pos = start
		p.unexpected("a regular expression")
	}
	var flags string
	for !p.eof() && strings.IndexByte("imsu", p.peek()) >= 0 {
		if c := p.peek(); c != 'u' {
			flags += string(c)
		}
		p.pos++
	}
	expr := pat.String()
	if flags != "" {
		expr = "(?" + flags + ")" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		p.pos = start
		p.fail("invalid regular expression: %v", err)
	}
	return attrValue{kind: valueRegexp, str: pat.String(), re: re}
}

func (p *parser) pseudoName() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == '-' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		p.unexpected("a pseudo-class name")
	}
	return strings.ToLower(p.src[start:p.pos])
}

func (p *parser) pseudo() matcher {
	p.expect(":")
	start := p.pos
	name := p.pseudoName()
	switch name {
	case "not", "matches", "is", "has":
		p.expect("(")
		p.spaces()
		var list []matcher
		if name == "has" {
			list = p.hasSelectors()
		} else {
			switch m := p.selectors().(type) {
			case anyOf:
				list = m.list
			default:
				list = []matcher{m}
			}
		}
		p.spaces()
		p.expect(")")
		switch name {
		case "not":
			return not{list: list}
		case "has":
			return has{list: list}
		}
		return anyOf{list: list}
	case "first-child":
		return nthChild{index: 1}
	case "last-child":
		return nthChild{index: 1, fromEnd: true}
	case "nth-child", "nth-last-child":
		p.expect("(")
		p.spaces()
		n := p.pos
		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			p.pos++
		}
		if n == p.pos {
			p.unexpected("an index")
		}
		i, _ := strconv.Atoi(p.src[n:p.pos])
		p.spaces()
		p.expect(")")
		return nthChild{index: i, fromEnd: name == "nth-last-child"}
	case "statement", "expression", "declaration", "function", "pattern":
		return class{name: name}
	}
	p.pos = start
	p.fail("unknown pseudo-class %q", name)
	return nil
}

func (p *parser) hasSelectors() []matcher {
	var list []matcher
	for {
		var m matcher
		switch c := p.peek(); c {
		case '>', '~', '+':
			p.pos++
			p.spaces()
			m = combinator{op: c, left: exactNode{}, right: p.sequence()}
			for {
				op, ok := p.combinatorOp()
				if !ok {
					break
				}
				m = combinator{op: op, left: m, right: p.sequence()}
			}
		default:
			m = p.selector()
		}
		list = append(list, m)
		save := p.pos
		p.spaces()
		if p.peek() != ',' {
			p.pos = save
			return list
		}
		p.pos++
		p.spaces()
	}
}
