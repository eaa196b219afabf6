package repository

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/unclebandit/customer-api/internal/model"
)

// Predicates are evaluated against this alias; display fields come from displayAlias.
const (
	filterAlias  = "af"
	displayAlias = "fa"
)

var customerColumns = []string{
	"c.id",
	"c.first_name",
	"c.last_name",
	"c.phone_number",
	displayAlias + ".address_line",
	displayAlias + ".city",
	displayAlias + ".state",
	displayAlias + ".pin_code",
}

// displayAddressJoin picks each customer's lowest-id address, independent of any filter.
const displayAddressJoin = "addresses " + displayAlias + " ON " + displayAlias + ".id = " +
	"(SELECT MIN(a2.id) FROM addresses a2 WHERE a2.customer_id = c.id)"

const filterAddressJoin = "addresses " + filterAlias + " ON " + filterAlias + ".customer_id = c.id"

// containsFunc builds a dialect-specific substring predicate.
type containsFunc func(column, value string) sq.Sqlizer

// customerQuery composes the listing and count statements for one filter.
type customerQuery struct {
	sb       sq.StatementBuilderType
	contains containsFunc
	filter   model.CustomerFilter
}

func (q customerQuery) predicates() sq.And {
	preds := sq.And{}
	if q.filter.City != "" {
		preds = append(preds, q.contains(filterAlias+".city", q.filter.City))
	}
	if q.filter.State != "" {
		preds = append(preds, q.contains(filterAlias+".state", q.filter.State))
	}
	if q.filter.PinCode != "" {
		preds = append(preds, q.contains(filterAlias+".pin_code", q.filter.PinCode))
	}
	return preds
}

// applyFilter inner-joins the addresses used for matching and adds the predicates.
// Without a filter every customer qualifies, including those with no address.
func (q customerQuery) applyFilter(b sq.SelectBuilder) sq.SelectBuilder {
	if q.filter.Empty() {
		return b
	}
	return b.Join(filterAddressJoin).Where(q.predicates())
}

// Page returns the statement selecting one page of customers, newest first.
func (q customerQuery) Page(p model.Page) sq.SelectBuilder {
	b := q.sb.Select(customerColumns...).
		From("customers c").
		LeftJoin(displayAddressJoin)
	if !q.filter.Empty() {
		b = b.Distinct()
	}
	return q.applyFilter(b).
		OrderBy("c.id DESC").
		Limit(uint64(p.Size)).
		Offset(uint64(p.Offset()))
}

// Count returns the statement counting distinct qualifying customers.
func (q customerQuery) Count() sq.SelectBuilder {
	b := q.sb.Select("COUNT(DISTINCT c.id)").From("customers c")
	return q.applyFilter(b)
}

// ByID returns the single-customer lookup with its display address.
func (q customerQuery) ByID(id int64) sq.SelectBuilder {
	return q.sb.Select(customerColumns...).
		From("customers c").
		LeftJoin(displayAddressJoin).
		Where(sq.Eq{"c.id": id})
}
