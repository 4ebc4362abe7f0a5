package predicate_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/sift/predicate"
)

// --- Test Metadata ---

// testMetadata is a hand-rolled Metadata for translator tests; the schema
// package provides the reflective implementation used in production.
type testMetadata struct {
	table string
	attrs map[string]predicate.Attribute
	index map[string]map[string]bool
}

func (m *testMetadata) TableName() string { return m.table }

func (m *testMetadata) Attribute(field string) (predicate.Attribute, bool) {
	a, ok := m.attrs[field]
	return a, ok
}

func (m *testMetadata) QueryableInIndex(field, index string) bool {
	if index == "" {
		a, ok := m.attrs[field]
		return ok && (a.PartitionKey || a.SortKey)
	}
	return m.index[index][field]
}

func orderMetadata() *testMetadata {
	return &testMetadata{
		table: "orders",
		attrs: map[string]predicate.Attribute{
			"Pk":     {Name: "pk", PartitionKey: true},
			"Sk":     {Name: "sk", SortKey: true},
			"Age":    {Name: "age"},
			"Status": {Name: "status"},
			"Total":  {Name: "total"},
			"Tags":   {Name: "tags"},
			"Email":  {Name: "email"},
		},
		index: map[string]map[string]bool{
			"by-status": {"Status": true, "Sk": true},
		},
	}
}

func newTranslator() *predicate.Translator {
	return predicate.NewTranslator(predicate.DefaultConfig())
}

func stringValue(t *testing.T, values map[string]types.AttributeValue, placeholder string) string {
	t.Helper()
	v, ok := values[placeholder].(*types.AttributeValueMemberS)
	if !ok {
		t.Fatalf("expected string value at %s, got %T", placeholder, values[placeholder])
	}
	return v.Value
}

func numberValue(t *testing.T, values map[string]types.AttributeValue, placeholder string) string {
	t.Helper()
	v, ok := values[placeholder].(*types.AttributeValueMemberN)
	if !ok {
		t.Fatalf("expected number value at %s, got %T", placeholder, values[placeholder])
	}
	return v.Value
}

// --- Translation Tests ---

func TestTranslate_KeyCondition(t *testing.T) {
	p := predicate.Field("Pk").Equal("A").And(predicate.Field("Sk").BeginsWith("B"))

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.KeysOnly)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if res.Condition != "#p0 = :v0 AND begins_with(#p1, :v1)" {
		t.Errorf("expected '#p0 = :v0 AND begins_with(#p1, :v1)', got %q", res.Condition)
	}
	if len(res.Names) != 2 || res.Names["#p0"] != "pk" || res.Names["#p1"] != "sk" {
		t.Errorf("expected names {#p0: pk, #p1: sk}, got %v", res.Names)
	}
	if got := stringValue(t, res.Values, ":v0"); got != "A" {
		t.Errorf("expected :v0 to be 'A', got %q", got)
	}
	if got := stringValue(t, res.Values, ":v1"); got != "B" {
		t.Errorf("expected :v1 to be 'B', got %q", got)
	}
}

func TestTranslate_NumericComparison(t *testing.T) {
	p := predicate.Field("Age").GreaterOrEqual(21)

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if res.Condition != "#p0 >= :v0" {
		t.Errorf("expected '#p0 >= :v0', got %q", res.Condition)
	}
	if res.Names["#p0"] != "age" {
		t.Errorf("expected #p0 to map to 'age', got %q", res.Names["#p0"])
	}
	if got := numberValue(t, res.Values, ":v0"); got != "21" {
		t.Errorf("expected :v0 to be '21', got %q", got)
	}
}

func TestTranslate_ComparisonOperators(t *testing.T) {
	tests := []struct {
		name string
		p    predicate.Expr
		want string
	}{
		{"equal", predicate.Field("Age").Equal(21), "#p0 = :v0"},
		{"not equal", predicate.Field("Age").NotEqual(21), "#p0 <> :v0"},
		{"less than", predicate.Field("Age").LessThan(21), "#p0 < :v0"},
		{"less or equal", predicate.Field("Age").LessOrEqual(21), "#p0 <= :v0"},
		{"greater than", predicate.Field("Age").GreaterThan(21), "#p0 > :v0"},
		{"greater or equal", predicate.Field("Age").GreaterOrEqual(21), "#p0 >= :v0"},
	}

	tr := newTranslator()
	meta := orderMetadata()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tr.Translate(tt.p, meta, predicate.Unrestricted)
			if err != nil {
				t.Fatalf("Translate failed: %v", err)
			}
			if res.Condition != tt.want {
				t.Errorf("expected %q, got %q", tt.want, res.Condition)
			}
		})
	}
}

func TestTranslate_Negation(t *testing.T) {
	p := predicate.Not(predicate.Field("Status").Equal("open"))

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "NOT (#p0 = :v0)" {
		t.Errorf("expected 'NOT (#p0 = :v0)', got %q", res.Condition)
	}
}

func TestTranslate_DisjunctionGrouping(t *testing.T) {
	p := predicate.Field("Pk").Equal("A").
		Or(predicate.Field("Sk").Equal("B")).
		And(predicate.Field("Age").GreaterOrEqual(21))

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "(#p0 = :v0 OR #p1 = :v1) AND #p2 >= :v2" {
		t.Errorf("expected '(#p0 = :v0 OR #p1 = :v1) AND #p2 >= :v2', got %q", res.Condition)
	}
}

func TestTranslate_VariadicAndFoldsLeft(t *testing.T) {
	p := predicate.And(
		predicate.Field("Status").Equal("open"),
		predicate.Field("Age").GreaterOrEqual(21),
		predicate.Field("Total").LessThan(100),
	)

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "(#p0 = :v0 AND #p1 >= :v1) AND #p2 < :v2" {
		t.Errorf("expected '(#p0 = :v0 AND #p1 >= :v1) AND #p2 < :v2', got %q", res.Condition)
	}
}

func TestTranslate_Between(t *testing.T) {
	p := predicate.Field("Total").Between(10, 20)

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "#p0 BETWEEN :v0 AND :v1" {
		t.Errorf("expected '#p0 BETWEEN :v0 AND :v1', got %q", res.Condition)
	}
	if got := numberValue(t, res.Values, ":v0"); got != "10" {
		t.Errorf("expected lower bound '10', got %q", got)
	}
	if got := numberValue(t, res.Values, ":v1"); got != "20" {
		t.Errorf("expected upper bound '20', got %q", got)
	}
}

func TestTranslate_Contains(t *testing.T) {
	p := predicate.Field("Tags").Contains("vip")

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "contains(#p0, :v0)" {
		t.Errorf("expected 'contains(#p0, :v0)', got %q", res.Condition)
	}
}

func TestTranslate_Exists(t *testing.T) {
	p := predicate.Field("Email").Exists()

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "attribute_exists(#p0)" {
		t.Errorf("expected 'attribute_exists(#p0)', got %q", res.Condition)
	}
	if res.Values != nil {
		t.Errorf("expected no values, got %v", res.Values)
	}
}

func TestTranslate_NotExists(t *testing.T) {
	p := predicate.Field("Email").NotExists()

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "attribute_not_exists(#p0)" {
		t.Errorf("expected 'attribute_not_exists(#p0)', got %q", res.Condition)
	}
}

func TestTranslate_SizeComparison(t *testing.T) {
	p := predicate.Field("Tags").Size().GreaterThan(5)

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "size(#p0) > :v0" {
		t.Errorf("expected 'size(#p0) > :v0', got %q", res.Condition)
	}
}

func TestTranslate_NameDeduplication(t *testing.T) {
	p := predicate.Field("Age").GreaterOrEqual(21).And(predicate.Field("Age").LessThan(65))

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "#p0 >= :v0 AND #p0 < :v1" {
		t.Errorf("expected '#p0 >= :v0 AND #p0 < :v1', got %q", res.Condition)
	}
	if len(res.Names) != 1 {
		t.Errorf("expected one name entry, got %v", res.Names)
	}
	if len(res.Values) != 2 {
		t.Errorf("expected two value entries, got %v", res.Values)
	}
}

func TestTranslate_ValuesNeverDeduplicated(t *testing.T) {
	p := predicate.Field("Status").Equal("open").Or(predicate.Field("Email").Equal("open"))

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "#p0 = :v0 OR #p1 = :v1" {
		t.Errorf("expected '#p0 = :v0 OR #p1 = :v1', got %q", res.Condition)
	}
	if stringValue(t, res.Values, ":v0") != "open" || stringValue(t, res.Values, ":v1") != "open" {
		t.Error("expected both placeholders to carry 'open'")
	}
}

func TestTranslate_HelperEvaluated(t *testing.T) {
	lower := func(args ...any) (any, error) {
		return strings.ToLower(args[0].(string)), nil
	}
	p := predicate.Field("Email").Equal(predicate.Compute(lower, "A@Example.COM"))

	res, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "#p0 = :v0" {
		t.Errorf("expected '#p0 = :v0', got %q", res.Condition)
	}
	if got := stringValue(t, res.Values, ":v0"); got != "a@example.com" {
		t.Errorf("expected helper result 'a@example.com', got %q", got)
	}
}

func TestTranslate_WithoutMetadata(t *testing.T) {
	p := predicate.Field("age").GreaterOrEqual(21)

	res, err := newTranslator().Translate(p, nil, predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "#p0 >= :v0" {
		t.Errorf("expected '#p0 >= :v0', got %q", res.Condition)
	}
	if res.Names["#p0"] != "age" {
		t.Errorf("expected verbatim attribute name 'age', got %q", res.Names["#p0"])
	}
}

// --- Rejection Tests ---

func TestTranslate_KeysOnlyRejectsNonKey(t *testing.T) {
	p := predicate.Field("Pk").Equal("A").And(predicate.Field("Age").GreaterOrEqual(21))

	_, err := newTranslator().Translate(p, orderMetadata(), predicate.KeysOnly)
	var keyErr *predicate.KeyConditionError
	if !errors.As(err, &keyErr) {
		t.Fatalf("expected KeyConditionError, got %v", err)
	}
	if keyErr.Field != "Age" {
		t.Errorf("expected offending field 'Age', got %q", keyErr.Field)
	}
}

func TestTranslate_UnmappedProperty(t *testing.T) {
	p := predicate.Field("Nope").Equal(1)

	_, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	var unmapped *predicate.UnmappedFieldError
	if !errors.As(err, &unmapped) {
		t.Fatalf("expected UnmappedFieldError, got %v", err)
	}
	if unmapped.Field != "Nope" {
		t.Errorf("expected offending field 'Nope', got %q", unmapped.Field)
	}
	if unmapped.Entity != "orders" {
		t.Errorf("expected entity 'orders', got %q", unmapped.Entity)
	}
}

func TestTranslate_KeysOnlyWithoutMetadata(t *testing.T) {
	p := predicate.Field("Pk").Equal("A")

	_, err := newTranslator().Translate(p, nil, predicate.KeysOnly)
	var unsupported *predicate.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

func TestTranslate_TransformedLeftOperand(t *testing.T) {
	upper := func(args ...any) (any, error) {
		return strings.ToUpper(args[0].(string)), nil
	}
	p := predicate.Comparison{
		Op:    predicate.OpEqual,
		Left:  predicate.Compute(upper, predicate.Field("Email")),
		Right: predicate.Value("A@B"),
	}

	_, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	var unsupported *predicate.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
	if unsupported.Subtree() == nil {
		t.Error("expected offending sub-tree to be attached")
	}
}

func TestTranslate_HelperWithPropertyArgument(t *testing.T) {
	echo := func(args ...any) (any, error) { return args[0], nil }
	p := predicate.Field("Email").Equal(predicate.Compute(echo, predicate.Field("Status")))

	_, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	var unsupported *predicate.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

func TestTranslate_HelperFailureSurfaces(t *testing.T) {
	boom := errors.New("helper exploded")
	failing := func(args ...any) (any, error) { return nil, boom }
	p := predicate.Field("Email").Equal(predicate.Compute(failing))

	_, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	var unsupported *predicate.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}

func TestTranslate_AssignRejected(t *testing.T) {
	p := predicate.Assign{Target: "Age", Value: predicate.Value(1)}

	_, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	var unsupported *predicate.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

func TestTranslate_FieldOnValueSide(t *testing.T) {
	p := predicate.Field("Age").Equal(predicate.Field("Total"))

	_, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	var unsupported *predicate.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

func TestTranslate_BareSizeRejected(t *testing.T) {
	p := predicate.Field("Tags").Size()

	_, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	var unsupported *predicate.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

func TestTranslate_NilExpression(t *testing.T) {
	_, err := newTranslator().Translate(nil, orderMetadata(), predicate.Unrestricted)
	var unsupported *predicate.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

func TestTranslate_MarshalFailure(t *testing.T) {
	p := predicate.Field("Age").Equal(make(chan int))

	_, err := newTranslator().Translate(p, orderMetadata(), predicate.Unrestricted)
	var unsupported *predicate.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

// --- Shared Registry Tests ---

func TestTranslateWith_SharedRegistries(t *testing.T) {
	tr := newTranslator()
	meta := orderMetadata()
	names := predicate.NewNameRegistry()
	values := predicate.NewValueRegistry()

	key := predicate.Field("Pk").Equal("A").And(predicate.Field("Sk").BeginsWith("B"))
	keyExpr, err := tr.TranslateWith(key, meta, predicate.KeysOnly, names, values)
	if err != nil {
		t.Fatalf("key translation failed: %v", err)
	}
	filter := predicate.Field("Age").GreaterOrEqual(21)
	filterExpr, err := tr.TranslateWith(filter, meta, predicate.Unrestricted, names, values)
	if err != nil {
		t.Fatalf("filter translation failed: %v", err)
	}

	if keyExpr != "#p0 = :v0 AND begins_with(#p1, :v1)" {
		t.Errorf("unexpected key expression %q", keyExpr)
	}
	if filterExpr != "#p2 >= :v2" {
		t.Errorf("expected filter numbering to continue with '#p2 >= :v2', got %q", filterExpr)
	}
	if names.Len() != 3 {
		t.Errorf("expected 3 registered names, got %d", names.Len())
	}
	if values.Len() != 3 {
		t.Errorf("expected 3 registered values, got %d", values.Len())
	}
}

func TestTranslateWith_NilRegistries(t *testing.T) {
	p := predicate.Field("Age").GreaterOrEqual(21)

	_, err := newTranslator().TranslateWith(p, orderMetadata(), predicate.Unrestricted, nil, nil)
	var unsupported *predicate.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

// --- Index Translation Tests ---

func TestTranslateIndex_AdmitsIndexKeys(t *testing.T) {
	p := predicate.Field("Status").Equal("open").And(predicate.Field("Sk").BeginsWith("2024"))

	expr, err := newTranslator().TranslateIndex(p, orderMetadata(), "by-status",
		predicate.NewNameRegistry(), predicate.NewValueRegistry())
	if err != nil {
		t.Fatalf("TranslateIndex failed: %v", err)
	}
	if expr != "#p0 = :v0 AND begins_with(#p1, :v1)" {
		t.Errorf("unexpected expression %q", expr)
	}
}

func TestTranslateIndex_RejectsNonIndexKey(t *testing.T) {
	p := predicate.Field("Age").GreaterOrEqual(21)

	_, err := newTranslator().TranslateIndex(p, orderMetadata(), "by-status",
		predicate.NewNameRegistry(), predicate.NewValueRegistry())
	var keyErr *predicate.KeyConditionError
	if !errors.As(err, &keyErr) {
		t.Fatalf("expected KeyConditionError, got %v", err)
	}
}

func TestTranslateIndex_EmptyNameUsesTableKeys(t *testing.T) {
	p := predicate.Field("Pk").Equal("A")

	expr, err := newTranslator().TranslateIndex(p, orderMetadata(), "",
		predicate.NewNameRegistry(), predicate.NewValueRegistry())
	if err != nil {
		t.Fatalf("TranslateIndex failed: %v", err)
	}
	if expr != "#p0 = :v0" {
		t.Errorf("unexpected expression %q", expr)
	}
}

// --- Cache Tests ---

func TestTranslate_CacheReuseWithDifferentValues(t *testing.T) {
	tr := newTranslator()
	meta := orderMetadata()

	first, err := tr.Translate(predicate.Field("Age").GreaterOrEqual(21), meta, predicate.Unrestricted)
	if err != nil {
		t.Fatalf("first translation failed: %v", err)
	}
	second, err := tr.Translate(predicate.Field("Age").GreaterOrEqual(65), meta, predicate.Unrestricted)
	if err != nil {
		t.Fatalf("second translation failed: %v", err)
	}

	if first.Condition != second.Condition {
		t.Errorf("expected identical conditions, got %q and %q", first.Condition, second.Condition)
	}
	if got := numberValue(t, first.Values, ":v0"); got != "21" {
		t.Errorf("expected first value '21', got %q", got)
	}
	if got := numberValue(t, second.Values, ":v0"); got != "65" {
		t.Errorf("expected second value '65', got %q", got)
	}
}

func TestTranslate_ModesCachedSeparately(t *testing.T) {
	tr := newTranslator()
	meta := orderMetadata()
	p := predicate.Field("Age").GreaterOrEqual(21)

	if _, err := tr.Translate(p, meta, predicate.Unrestricted); err != nil {
		t.Fatalf("unrestricted translation failed: %v", err)
	}
	// Same shape, stricter mode: must still be rejected, not served from
	// the unrestricted entry.
	if _, err := tr.Translate(p, meta, predicate.KeysOnly); err == nil {
		t.Fatal("expected keys-only rejection after unrestricted translation of same shape")
	}
}

func TestTranslate_CacheDisabled(t *testing.T) {
	tr := predicate.NewTranslator(predicate.Config{CacheDisabled: true})

	res, err := tr.Translate(predicate.Field("Age").GreaterOrEqual(21), orderMetadata(), predicate.Unrestricted)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Condition != "#p0 >= :v0" {
		t.Errorf("expected '#p0 >= :v0', got %q", res.Condition)
	}
}

func TestTranslate_HelperFailureDoesNotPoisonCache(t *testing.T) {
	tr := newTranslator()
	meta := orderMetadata()
	failing := func(args ...any) (any, error) { return nil, errors.New("boom") }
	ok := func(args ...any) (any, error) { return "fine", nil }

	// Same shape: helper call compared against a property. The first carries
	// a failing helper, the second a working one.
	if _, err := tr.Translate(predicate.Field("Email").Equal(predicate.Compute(failing)), meta, predicate.Unrestricted); err == nil {
		t.Fatal("expected failing helper to error")
	}
	res, err := tr.Translate(predicate.Field("Email").Equal(predicate.Compute(ok)), meta, predicate.Unrestricted)
	if err != nil {
		t.Fatalf("expected same-shape translation to succeed after failure, got %v", err)
	}
	if got := stringValue(t, res.Values, ":v0"); got != "fine" {
		t.Errorf("expected helper result 'fine', got %q", got)
	}
}

// --- Concurrency Tests ---

func TestTranslate_Concurrent(t *testing.T) {
	tr := newTranslator()
	meta := orderMetadata()

	const goroutines = 8
	const iterations = 200

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				age := g*iterations + i
				res, err := tr.Translate(predicate.Field("Age").GreaterOrEqual(age), meta, predicate.Unrestricted)
				if err != nil {
					errs <- err
					return
				}
				if res.Condition != "#p0 >= :v0" {
					errs <- fmt.Errorf("unexpected condition %q", res.Condition)
					return
				}
				if v, ok := res.Values[":v0"].(*types.AttributeValueMemberN); !ok || v.Value != fmt.Sprintf("%d", age) {
					errs <- fmt.Errorf("goroutine %d saw foreign value %v", g, res.Values[":v0"])
					return
				}

				key := predicate.Field("Pk").Equal("A").And(predicate.Field("Sk").BeginsWith("B"))
				keyRes, err := tr.Translate(key, meta, predicate.KeysOnly)
				if err != nil {
					errs <- err
					return
				}
				if keyRes.Condition != "#p0 = :v0 AND begins_with(#p1, :v1)" {
					errs <- fmt.Errorf("unexpected key condition %q", keyRes.Condition)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent translation failed: %v", err)
	}
}

// --- Benchmark Tests ---

func BenchmarkTranslate_CacheHit(b *testing.B) {
	tr := predicate.NewTranslator(predicate.DefaultConfig())
	meta := orderMetadata()
	p := predicate.Field("Pk").Equal("A").And(predicate.Field("Sk").BeginsWith("B"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tr.Translate(p, meta, predicate.KeysOnly); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTranslate_CacheDisabled(b *testing.B) {
	tr := predicate.NewTranslator(predicate.Config{CacheDisabled: true})
	meta := orderMetadata()
	p := predicate.Field("Pk").Equal("A").And(predicate.Field("Sk").BeginsWith("B"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tr.Translate(p, meta, predicate.KeysOnly); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTranslate_Complex(b *testing.B) {
	tr := predicate.NewTranslator(predicate.DefaultConfig())
	meta := orderMetadata()
	p := predicate.Field("Status").Equal("open").
		Or(predicate.Field("Status").Equal("held")).
		And(predicate.Field("Total").Between(10, 500)).
		And(predicate.Not(predicate.Field("Email").NotExists()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tr.Translate(p, meta, predicate.Unrestricted); err != nil {
			b.Fatal(err)
		}
	}
}
