package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005
	LexUnterminatedLongString   Code = 1006
	LexBadLongBracket           Code = 1007
	LexUnbalancedInterp         Code = 1008

	// Syntax
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynExpectExpression    Code = 2002
	SynExpectIdentifier    Code = 2003
	SynExpectEnd           Code = 2004
	SynUnclosedParen       Code = 2005
	SynUnclosedBrace       Code = 2006
	SynUnclosedBracket     Code = 2007
	SynExpectAssign        Code = 2008
	SynForBadHeader        Code = 2009
	SynNotAssignable       Code = 2010
	SynBreakOutsideLoop    Code = 2011
	SynContinueOutsideLoop Code = 2012
	SynVarargOutsideVararg Code = 2013
	SynFeatureDisabled     Code = 2014
	SynExpectType          Code = 2015
	SynAmbiguousCall       Code = 2016
	SynExpectStatement     Code = 2017
	SynExpectThen          Code = 2018
	SynExpectDo            Code = 2019

	// Closure caching
	CacheInfo            Code = 3000
	CacheUncachedClosure Code = 3001

	IOInfo          Code = 4000
	IOLoadFileError Code = 4001

	ProjInfo          Code = 5000
	ProjConfigInvalid Code = 5001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Malformed number",
		LexBadEscape:                "Invalid escape sequence",
		LexUnterminatedLongString:   "Unterminated long string",
		LexBadLongBracket:           "Invalid long bracket",
		LexUnbalancedInterp:         "Unbalanced interpolated string",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectExpression:         "Expected expression",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectEnd:                "Expected 'end'",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynExpectAssign:             "Expected '='",
		SynForBadHeader:             "Malformed for loop header",
		SynNotAssignable:            "Expression is not assignable",
		SynBreakOutsideLoop:         "'break' outside of a loop",
		SynContinueOutsideLoop:      "'continue' outside of a loop",
		SynVarargOutsideVararg:      "'...' outside of a vararg function",
		SynFeatureDisabled:          "Language feature disabled",
		SynExpectType:               "Expected type",
		SynAmbiguousCall:            "Ambiguous function call",
		SynExpectStatement:          "Expected statement",
		SynExpectThen:               "Expected 'then'",
		SynExpectDo:                 "Expected 'do'",
		CacheInfo:                   "Closure caching information",
		CacheUncachedClosure:        "Closure cannot be cached",
		IOInfo:                      "I/O information",
		IOLoadFileError:             "I/O load file error",
		ProjInfo:                    "Project information",
		ProjConfigInvalid:           "Invalid project configuration",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("UCC%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// Kind is the category label of the plain output format.
// Lexical problems are syntax errors from the user's point of view.
func (c Code) Kind() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 3000:
		return "SyntaxError"
	case ic >= 3000 && ic < 4000:
		return "UncachedClosureWarning"
	case ic >= 4000 && ic < 5000:
		return "IOError"
	case ic >= 5000 && ic < 6000:
		return "ConfigError"
	case ic >= 6000 && ic < 7000:
		return "Info"
	}
	return "Error"
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
