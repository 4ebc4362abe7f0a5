package request

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/sift/predicate"
	"github.com/jacentio/sift/schema"
)

// Scan builds a [dynamodb.ScanInput]. The filter is translated
// unrestricted; any mapped property may appear in it.
type Scan struct {
	tr     *predicate.Translator
	table  *schema.Table
	names  *predicate.NameRegistry
	values *predicate.ValueRegistry

	filter     predicate.Expr
	index      string
	limit      int32
	consistent bool
	startKey   map[string]types.AttributeValue
	project    []string
	segment    int32
	total      int32
	err        error
}

// NewScan returns a scan builder for the given table.
func NewScan(tr *predicate.Translator, table *schema.Table) *Scan {
	s := &Scan{
		tr:     tr,
		table:  table,
		names:  predicate.NewNameRegistry(),
		values: predicate.NewValueRegistry(),
	}
	if tr == nil {
		s.fail(ErrNilTranslator)
	}
	if table == nil {
		s.fail(ErrNilTable)
	}
	return s
}

func (s *Scan) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Filter sets the filter expression.
func (s *Scan) Filter(p predicate.Expr) *Scan {
	s.filter = p
	return s
}

// Index scans a secondary index instead of the table itself.
func (s *Scan) Index(name string) *Scan {
	s.index = name
	return s
}

// Limit caps the number of items evaluated per page.
func (s *Scan) Limit(n int32) *Scan {
	s.limit = n
	return s
}

// ConsistentRead requests strongly consistent reads.
func (s *Scan) ConsistentRead() *Scan {
	s.consistent = true
	return s
}

// StartKey resumes a paginated scan from a previous LastEvaluatedKey.
func (s *Scan) StartKey(key map[string]types.AttributeValue) *Scan {
	s.startKey = key
	return s
}

// Project limits the returned attributes to the named properties.
func (s *Scan) Project(fields ...string) *Scan {
	s.project = append(s.project, fields...)
	return s
}

// Segment assigns this scan one segment of a parallel scan split into
// total segments.
func (s *Scan) Segment(segment, total int32) *Scan {
	s.segment = segment
	s.total = total
	return s
}

// Build translates the configured filter and assembles the input.
func (s *Scan) Build() (*dynamodb.ScanInput, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.index != "" {
		if _, ok := s.table.Index(s.index); !ok {
			return nil, ErrUnknownIndex
		}
	}

	input := &dynamodb.ScanInput{
		TableName: aws.String(s.table.TableName()),
	}
	if s.index != "" {
		input.IndexName = aws.String(s.index)
	}
	if s.filter != nil {
		filterExpr, err := s.tr.TranslateWith(s.filter, s.table, predicate.Unrestricted, s.names, s.values)
		if err != nil {
			return nil, err
		}
		input.FilterExpression = aws.String(filterExpr)
	}
	if len(s.project) > 0 {
		proj, err := projection(s.table, s.names, s.project)
		if err != nil {
			return nil, err
		}
		input.ProjectionExpression = aws.String(proj)
	}
	if s.limit > 0 {
		input.Limit = aws.Int32(s.limit)
	}
	if s.consistent {
		input.ConsistentRead = aws.Bool(true)
	}
	if s.startKey != nil {
		input.ExclusiveStartKey = s.startKey
	}
	if s.total > 0 {
		input.Segment = aws.Int32(s.segment)
		input.TotalSegments = aws.Int32(s.total)
	}
	input.ExpressionAttributeNames = s.names.Map()
	input.ExpressionAttributeValues = s.values.Map()
	return input, nil
}
