package config

// SourceFileExt is the extension of Tally source files.
const SourceFileExt = ".tally"

// EntryFunctionName is the function the evaluator starts from.
const EntryFunctionName = "main"

// Built-in type names
const (
	IntTypeName     = "int"
	DecimalTypeName = "decimal"
	BoolTypeName    = "bool"
	StringTypeName  = "string"
	NullTypeName    = "null"
	VoidTypeName    = "void"
	TypeTypeName    = "type"
	VarKeyword      = "var"
)

// Native class names
const (
	AccountClassName    = "Account"
	CollectionClassName = "Collection"
	LambdaClassName     = "Lambda"
)

// Native member names
const (
	CurrencyPropertyName = "Currency"
	BalancePropertyName  = "Balance"
	NamePropertyName     = "Name"
	CountPropertyName    = "Count"

	CopyMethodName   = "Copy"
	AddMethodName    = "Add"
	DeleteMethodName = "Delete"
	FirstMethodName  = "First"
	LastMethodName   = "Last"
	WhereMethodName  = "Where"
)

// Built-in function names
const (
	PrintFuncName = "print"
	StrFuncName   = "str"
)

// Defaults for Settings.
const (
	DefaultMaxDiagnostics = 20
	DefaultMaxCallDepth   = 1000
	DefaultLogLevel       = "warn"
)

// Version is reported by the command line tool.
const Version = "0.1.0"

// SettingsFileName is the settings file looked up by default.
const SettingsFileName = "tally.yaml"
