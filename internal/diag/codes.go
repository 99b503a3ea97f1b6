package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Ошибки разбора
	PrsInfo            Code = 1000
	PrsUnexpectedToken Code = 1001
	PrsMissingToken    Code = 1002
	PrsUnsupportedNode Code = 1003

	// Конструкции, которые не умеем (или не до конца умеем) переписывать
	UnsInfo               Code = 2000
	UnsMissingTransform   Code = 2001
	UnsDangerousTransform Code = 2002
	UnsLabeledLoopJump    Code = 2003
	UnsComputedAccessor   Code = 2004
	UnsClassField         Code = 2005
	UnsModuleSyntax       Code = 2006
	UnsRegExpPattern      Code = 2007

	// Нарушения семантических предусловий
	SemInfo                 Code = 3000
	SemConstReassign        Code = 3001
	SemSuperOutsideMethod   Code = 3002
	SemSuperInBaseClass     Code = 3003
	SemSuperCallOutsideCtor Code = 3004
	SemSuperUnexpected      Code = 3005
	SemObjectSpreadNoAssign Code = 3006
	SemJSXSpreadNoAssign    Code = 3007
	SemLoopVarCapture       Code = 3008

	// Внутренние ошибки компилятора
	IntInfo           Code = 4000
	IntUnexpectedNode Code = 4001
	IntEditConflict   Code = 4002

	// Конфигурация
	CfgInfo               Code = 5000
	CfgUnknownEnvironment Code = 5001
	CfgUnknownVersion     Code = 5002
	CfgUnknownTransform   Code = 5003
	CfgInvalidFile        Code = 5004

	IOLoadFileError  Code = 6001
	IOWriteFileError Code = 6002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		PrsInfo:                 "Parser information",
		PrsUnexpectedToken:      "Unexpected token",
		PrsMissingToken:         "Missing token",
		PrsUnsupportedNode:      "Unsupported syntax",
		UnsInfo:                 "Transform information",
		UnsMissingTransform:     "Transform not implemented",
		UnsDangerousTransform:   "Transform requires explicit opt-in",
		UnsLabeledLoopJump:      "Labeled break/continue across rewritten loop",
		UnsComputedAccessor:     "Computed accessor property",
		UnsClassField:           "Class field",
		UnsModuleSyntax:         "Module syntax",
		UnsRegExpPattern:        "Regular expression pattern",
		SemInfo:                 "Semantic information",
		SemConstReassign:        "Assignment to read-only binding",
		SemSuperOutsideMethod:   "super outside class method",
		SemSuperInBaseClass:     "super in base class",
		SemSuperCallOutsideCtor: "super() outside constructor",
		SemSuperUnexpected:      "Unexpected use of super",
		SemObjectSpreadNoAssign: "Object spread without objectAssign",
		SemJSXSpreadNoAssign:    "JSX spread without objectAssign",
		SemLoopVarCapture:       "Loop variable capture",
		IntInfo:                 "Internal information",
		IntUnexpectedNode:       "Unexpected node",
		IntEditConflict:         "Conflicting edits",
		CfgInfo:                 "Configuration information",
		CfgUnknownEnvironment:   "Unknown environment",
		CfgUnknownVersion:       "Unknown environment version",
		CfgUnknownTransform:     "Unknown transform",
		CfgInvalidFile:          "Invalid configuration file",
		IOLoadFileError:         "I/O load file error",
		IOWriteFileError:        "I/O write file error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PRS%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("UNS%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("INT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
