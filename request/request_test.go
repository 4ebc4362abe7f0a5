package request_test

import (
	"errors"
	"testing"

	"github.com/jacentio/sift/predicate"
	"github.com/jacentio/sift/request"
	"github.com/jacentio/sift/schema"
)

// --- Test Entity Types ---

type order struct {
	ID     string   `dynamodbav:"pk" sift:"pk"`
	Placed string   `dynamodbav:"sk" sift:"sk"`
	Status string   `dynamodbav:"status" sift:"index:by-status:pk"`
	Total  int      `dynamodbav:"total" sift:"index:by-status:sk"`
	Email  string   `dynamodbav:"email"`
	Note   string   `dynamodbav:"note,omitempty"`
	Tags   []string `dynamodbav:"tags"`
}

var (
	tr     = predicate.NewTranslator(predicate.DefaultConfig())
	orders = schema.MustDefine(order{}, "orders")
)

// expr dereferences an expression member, failing the test when the input
// never set it.
func expr(t *testing.T, s *string) string {
	t.Helper()
	if s == nil {
		t.Fatal("expected expression to be set, got nil")
	}
	return *s
}

// --- Builder Construction Tests ---

func TestNewQuery_NilTranslator(t *testing.T) {
	_, err := request.NewQuery(nil, orders).
		KeyCondition(predicate.Field("ID").Equal("o1")).
		Build()
	if !errors.Is(err, request.ErrNilTranslator) {
		t.Errorf("expected ErrNilTranslator, got %v", err)
	}
}

func TestNewQuery_NilTable(t *testing.T) {
	_, err := request.NewQuery(tr, nil).
		KeyCondition(predicate.Field("ID").Equal("o1")).
		Build()
	if !errors.Is(err, request.ErrNilTable) {
		t.Errorf("expected ErrNilTable, got %v", err)
	}
}

func TestNewPut_NilTranslator(t *testing.T) {
	_, err := request.NewPut(nil, orders, order{ID: "o1", Placed: "p"}).Build()
	if !errors.Is(err, request.ErrNilTranslator) {
		t.Errorf("expected ErrNilTranslator, got %v", err)
	}
}

func TestNewBatchGet_NilTable(t *testing.T) {
	_, err := request.NewBatchGet(nil).Key("o1", "p").Build()
	if !errors.Is(err, request.ErrNilTable) {
		t.Errorf("expected ErrNilTable, got %v", err)
	}
}
