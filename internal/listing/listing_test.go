package listing

import (
	"fmt"
	"math"
	"reflect"
	"testing"
)

type item struct {
	name     string
	email    string
	status   string
	price    float64
	hasPrice bool
}

func itemName(i item) string   { return i.name }
func itemEmail(i item) string  { return i.email }
func itemStatus(i item) string { return i.status }
func itemPrice(i item) (float64, bool) {
	return i.price, i.hasPrice
}

var fixtures = []item{
	{name: "Ana Lopez", email: "ana@example.com", status: "pending", price: 40, hasPrice: true},
	{name: "Ben Kim", email: "ben@example.com", status: "approved", price: 50, hasPrice: true},
	{name: "Cara Diaz", email: "cara@lopez.dev", status: "approved", price: 100, hasPrice: true},
	{name: "Dan Ode", email: "dan@example.com", status: "rejected", price: 250, hasPrice: true},
	{name: "Eve Ray", email: "eve@example.com", status: "pending"},
}

func names(items []item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.name)
	}
	return out
}

func TestFilterTextMatchesAnyFieldIgnoringCase(t *testing.T) {
	got := Filter(fixtures, Text("LOPEZ", itemName, itemEmail))
	want := []string{"Ana Lopez", "Cara Diaz"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("expected %v, got %v", want, names(got))
	}

	if got := Filter(fixtures, Text[item]("   ", itemName)); len(got) != len(fixtures) {
		t.Fatalf("empty search term must pass everything, got %d", len(got))
	}
}

func TestFilterCategorySentinelIsInactive(t *testing.T) {
	for _, sentinel := range []string{"", "All", "All Status", "all categories"} {
		if got := Filter(fixtures, Category(sentinel, itemStatus)); len(got) != len(fixtures) {
			t.Fatalf("sentinel %q should be inactive, got %d records", sentinel, len(got))
		}
	}
	got := Filter(fixtures, Category("Approved", itemStatus))
	if !reflect.DeepEqual(names(got), []string{"Ben Kim", "Cara Diaz"}) {
		t.Fatalf("unexpected approved records: %v", names(got))
	}
}

func TestFilterRangeBucketsAreInclusive(t *testing.T) {
	got := Filter(fixtures, Range("$50 - $100", PriceBuckets, itemPrice))
	if !reflect.DeepEqual(names(got), []string{"Ben Kim", "Cara Diaz"}) {
		t.Fatalf("unexpected $50 - $100 records: %v", names(got))
	}

	got = Filter(fixtures, Range("Under $50", PriceBuckets, itemPrice))
	if !reflect.DeepEqual(names(got), []string{"Ana Lopez"}) {
		t.Fatalf("unexpected under $50 records: %v", names(got))
	}

	got = Filter(fixtures, Range("Over $200", PriceBuckets, itemPrice))
	if !reflect.DeepEqual(names(got), []string{"Dan Ode"}) {
		t.Fatalf("unexpected over $200 records: %v", names(got))
	}

	if got := Filter(fixtures, Range("Free", PriceBuckets, itemPrice)); len(got) != len(fixtures) {
		t.Fatalf("unknown bucket should be inactive, got %d", len(got))
	}
}

func TestFilterIsConjunctionAndSubset(t *testing.T) {
	constraints := []Constraint[item]{
		Text("example.com", itemEmail),
		Category("pending", itemStatus),
		Range("Under $50", PriceBuckets, itemPrice),
	}
	got := Filter(fixtures, constraints...)
	if !reflect.DeepEqual(names(got), []string{"Ana Lopez"}) {
		t.Fatalf("unexpected conjunction result: %v", names(got))
	}

	for _, record := range got {
		found := false
		for _, original := range fixtures {
			if original == record {
				found = true
			}
		}
		if !found {
			t.Fatalf("filtered record %+v is not part of the input", record)
		}
		for _, constraint := range constraints {
			if constraint.Active() && !constraint.match(record) {
				t.Fatalf("record %+v violates an active constraint", record)
			}
		}
	}
}

func TestPaginateCoversCollectionExactlyOnce(t *testing.T) {
	records := make([]int, 23)
	for i := range records {
		records[i] = i
	}
	const pageSize = 10

	pages := TotalPages(len(records), pageSize)
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}

	var joined []int
	for page := 1; page <= pages; page++ {
		chunk := Paginate(records, pageSize, page)
		if len(chunk) > pageSize {
			t.Fatalf("page %d has %d items", page, len(chunk))
		}
		joined = append(joined, chunk...)
	}
	if !reflect.DeepEqual(joined, records) {
		t.Fatalf("pages do not reproduce the input: %v", joined)
	}

	if out := Paginate(records, pageSize, 4); len(out) != 0 {
		t.Fatalf("expected empty page past the end, got %v", out)
	}
	if out := Paginate(records, pageSize, 0); len(out) != 0 {
		t.Fatalf("expected empty page for page 0, got %v", out)
	}
}

func TestPageMeta(t *testing.T) {
	records := make([]string, 0, 11)
	for i := 0; i < 11; i++ {
		records = append(records, fmt.Sprintf("r%d", i))
	}
	items, meta := Page(records, 5, 3)
	if len(items) != 1 || items[0] != "r10" {
		t.Fatalf("unexpected last page: %v", items)
	}
	if meta.Total != 11 || meta.TotalPages != 3 || meta.Page != 3 || meta.Limit != 5 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if TotalPages(0, 10) != 0 {
		t.Fatalf("expected zero pages for empty input")
	}
}

func TestPaginateHugePageIsEmpty(t *testing.T) {
	records := []int{1, 2, 3}
	for _, page := range []int{math.MaxInt / 2, math.MaxInt, 1000000000000000001} {
		if out := Paginate(records, 10, page); len(out) != 0 {
			t.Fatalf("expected empty page for %d, got %v", page, out)
		}
	}
	items, meta := Page(records, 10, math.MaxInt/2)
	if len(items) != 0 || meta.TotalPages != 1 || meta.Total != 3 {
		t.Fatalf("unexpected page %v, meta %+v", items, meta)
	}
}
