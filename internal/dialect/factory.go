package dialect

import "fmt"

// GetDialect returns the Dialect for a database/sql driver name.
func GetDialect(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return &MysqlDialect{}, nil
	case "postgres":
		return &PostgresDialect{}, nil
	case "sqlserver", "mssql":
		return &MSSQLDialect{}, nil
	case "oracle":
		return &OracleDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported driver %q (want mysql, postgres, sqlserver or oracle)", driver)
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
