package mongo

import (
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/pingcraft/identity-system/internal/core/ports"
)

func regexValue(t *testing.T, filter bson.M, field string) string {
	t.Helper()
	clause, ok := filter[field].(bson.M)
	if !ok {
		t.Fatalf("field %q missing from filter: %v", field, filter)
	}
	pattern, ok := clause["$regex"].(string)
	if !ok {
		t.Fatalf("field %q has no $regex clause: %v", field, clause)
	}
	return pattern
}

func TestListFilter_ExcludesDeleted(t *testing.T) {
	filter := listFilter(ports.UserQuery{})
	if filter["is_delete"] != 0 {
		t.Fatalf("expected is_delete=0 in every filter, got %v", filter)
	}
	if len(filter) != 1 {
		t.Fatalf("empty query must only filter deletion, got %v", filter)
	}
}

func TestListFilter_EscapesRegexMetacharacters(t *testing.T) {
	q := ports.UserQuery{
		Account: "(",
		Name:    "a.b*c",
		Profile: "100% [legit]",
	}
	filter := listFilter(q)

	for field, raw := range map[string]string{
		"account": q.Account,
		"name":    q.Name,
		"profile": q.Profile,
	} {
		pattern := regexValue(t, filter, field)
		if pattern != regexp.QuoteMeta(raw) {
			t.Fatalf("field %q: expected quoted pattern %q, got %q", field, regexp.QuoteMeta(raw), pattern)
		}
		// The escaped pattern must compile and match only the literal text.
		re, err := regexp.Compile(pattern)
		if err != nil {
			t.Fatalf("field %q: pattern %q does not compile: %v", field, pattern, err)
		}
		if !re.MatchString("xx" + raw + "yy") {
			t.Fatalf("field %q: pattern %q does not match its own literal", field, pattern)
		}
		if field == "name" && re.MatchString("aXbYc") {
			t.Fatalf("metacharacters still active in pattern %q", pattern)
		}
	}
}

func TestListFilter_ExactFields(t *testing.T) {
	filter := listFilter(ports.UserQuery{ID: 7, Role: "admin"})
	if filter["_id"] != int64(7) {
		t.Fatalf("expected _id=7, got %v", filter["_id"])
	}
	if filter["role"] != "admin" {
		t.Fatalf("expected role=admin, got %v", filter["role"])
	}
}
