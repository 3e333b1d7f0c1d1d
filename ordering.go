package pagescope

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Direction defines the sort direction of a page.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (d Direction) Valid() bool {
	return d == DirectionASC || d == DirectionDESC
}

type (
	// Orderings is a multi-column ordering, most significant column first.
	// Page numbers are only stable over a deterministic ordering, so the last
	// column should be unique.
	Orderings []OrderBy
	OrderBy   struct {
		Column    string
		Direction Direction
	}

	ColumnAlias = string

	// ColumnMapping maps the aliases a client may sort by to column names.
	// Qualify the column ("users.name") when the scope joins other tables.
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

// Asc is shorthand for OrderBy{Column: column, Direction: DirectionASC}.
func Asc(column string) OrderBy {
	return OrderBy{Column: column, Direction: DirectionASC}
}

// Desc is shorthand for OrderBy{Column: column, Direction: DirectionDESC}.
func Desc(column string) OrderBy {
	return OrderBy{Column: column, Direction: DirectionDESC}
}

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("invalid ordering direction '%s'", o.Direction)
	}

	if o.Column == "" {
		return fmt.Errorf("empty ordering column")
	}

	// Column names end up in raw SQL.
	if !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("ordering column name contains forbidden symbols '%s'", o.Column)
	}

	return nil
}

// ToSQLSlice converts Orderings to "<column> <direction>" strings.
//
// Example: for [{"a", "ASC"}, {"b", "DESC"}] returns ["a ASC", "b DESC"].
func (o Orderings) ToSQLSlice() []string {
	return lo.Map(o, func(ordering OrderBy, _ int) string {
		return fmt.Sprintf("%s %s", ordering.Column, ordering.Direction)
	})
}

// ToSQL joins ToSQLSlice with commas: "a ASC, b DESC".
func (o Orderings) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

// Apply adds the orderings to a gorm query as a single ORDER BY clause.
func (o Orderings) Apply(db *gorm.DB) *gorm.DB {
	if len(o) == 0 {
		return db
	}

	return db.Order(o.ToSQL())
}

// Merge appends orderings, replacing earlier entries for the same column.
func (o Orderings) Merge(orderBy ...OrderBy) Orderings {
	ret := append(Orderings(nil), o...)
	for _, ob := range orderBy {
		ret = lo.Reject(ret, func(processed OrderBy, _ int) bool {
			return processed.Column == ob.Column
		})
		ret = append(ret, ob)
	}

	return ret
}

func (o Orderings) validate() error {
	for _, ordering := range o {
		if err := ordering.validate(); err != nil {
			return err
		}
	}

	return nil
}

// ParseSort builds Orderings from client supplied strings. Accepted forms:
//
//	"name"       ascending
//	"name desc"  explicit direction, case insensitive
//	"-name"      descending
//
// Aliases are resolved through columnMapping; an unknown alias is reported
// together with the closest known one.
func ParseSort(stringsOrderings []string, columnMapping ColumnMapping) (Orderings, error) {
	ret := make(Orderings, 0, len(stringsOrderings))
	aliases := lo.Keys(columnMapping)

	for _, stringOrdering := range stringsOrderings {
		fields := strings.Fields(stringOrdering)

		var (
			columnAlias string
			direction   = DirectionASC
		)

		switch len(fields) {
		case 1:
			columnAlias = fields[0]
			if rest, ok := strings.CutPrefix(columnAlias, "-"); ok {
				columnAlias, direction = rest, DirectionDESC
			}
		case 2:
			columnAlias = fields[0]
			direction = Direction(strings.ToUpper(fields[1]))
		default:
			return nil, fmt.Errorf("invalid ordering string format '%s'", stringOrdering)
		}

		if !direction.Valid() {
			return nil, fmt.Errorf("invalid ordering direction '%s'", fields[len(fields)-1])
		}

		columnName := columnMapping[columnAlias]
		if columnName == "" {
			return nil, fmt.Errorf("invalid column alias '%s'. closest: '%s'", columnAlias, closestAlias(columnAlias, aliases))
		}

		ret = ret.Merge(OrderBy{Column: columnName, Direction: direction})
	}

	return ret, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		// Ties are broken alphabetically, map order is random.
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
