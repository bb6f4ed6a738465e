package typeconv

import "strings"

// CanonicalType normalizes Postgres column types for comparison.
func CanonicalType(typ string) string {
	t := strings.ToUpper(typ)
	switch t {
	case "INT2", "INT4", "SMALLINT", "INTEGER", "SERIAL":
		return "INTEGER"
	case "INT8", "BIGINT", "BIGSERIAL":
		return "BIGINT"
	case "BOOL", "BOOLEAN":
		return "BOOLEAN"
	case "TEXT", "VARCHAR", "BPCHAR", "CHAR", "CITEXT", "XML", "INET":
		return "TEXT"
	case "REAL", "FLOAT4", "FLOAT8", "DOUBLE PRECISION":
		return "REAL"
	case "NUMERIC", "DECIMAL", "MONEY":
		return "NUMERIC"
	case "DATE", "TIME", "TIMETZ", "TIMESTAMP", "TIMESTAMPTZ":
		return "TIMESTAMP"
	case "JSON", "JSONB":
		return "JSON"
	case "BYTEA":
		return "BYTEA"
	case "UUID":
		return "UUID"
	default:
		return t
	}
}

// PrismaScalar maps a Postgres udt_name to the Prisma scalar type. Array types, whose udt_name
// starts with an underscore, report list. ok is false for types Prisma does not support.
func PrismaScalar(udt string) (typ string, list bool, ok bool) {
	if strings.HasPrefix(udt, "_") {
		list = true
		udt = udt[1:]
	}
	switch CanonicalType(udt) {
	case "INTEGER":
		typ = "Int"
	case "BIGINT":
		typ = "BigInt"
	case "BOOLEAN":
		typ = "Boolean"
	case "TEXT", "UUID":
		typ = "String"
	case "REAL":
		typ = "Float"
	case "NUMERIC":
		typ = "Decimal"
	case "TIMESTAMP":
		typ = "DateTime"
	case "JSON":
		typ = "Json"
	case "BYTEA":
		typ = "Bytes"
	default:
		return "", list, false
	}
	return typ, list, true
}
