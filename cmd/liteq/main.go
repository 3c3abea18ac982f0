// Command liteq inspects a SQLite-format database file and evaluates a
// restricted SELECT grammar against it.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ehsanul/liteq"
)

// cli is the two-positional-argument interface: a database file path and a
// command, either a dot-command or a SELECT statement.
var cli struct {
	Path    string `arg:"" help:"Path to the SQLite-format database file."`
	Command string `arg:"" help:"A dot-command (.dbinfo, .tables) or a SELECT statement."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("liteq"),
		kong.Description("Read-only query engine for SQLite-format database files."),
	)

	if err := run(cli.Path, cli.Command); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path, command string) error {
	db, err := liteq.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	switch lower := strings.ToLower(strings.TrimSpace(command)); {
	case command == ".dbinfo":
		fmt.Printf("database page size: %d\n", db.Header.PageSize)
		fmt.Printf("number of tables: %d\n", db.Header.TableCount)
		return nil

	case command == ".tables":
		catalog, err := liteq.LoadSchema(db)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(catalog.TableOrder, " "))
		return nil

	case strings.HasPrefix(lower, "select"):
		catalog, err := liteq.LoadSchema(db)
		if err != nil {
			return err
		}
		query, err := liteq.ParseQuery(command)
		if err != nil {
			return err
		}
		result, err := liteq.Execute(db, catalog, query)
		if err != nil {
			return err
		}
		printResult(result)
		return nil

	default:
		return fmt.Errorf("Invalid command: %s", command)
	}
}

func printResult(result *liteq.ExecResult) {
	if result.Count != nil {
		fmt.Println(strconv.FormatInt(*result.Count, 10))
		return
	}
	for _, row := range result.Rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = formatValue(v)
		}
		fmt.Println(strings.Join(fields, "|"))
	}
}

func formatValue(v liteq.Value) string {
	switch val := v.(type) {
	case liteq.NullType:
		return ""
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
