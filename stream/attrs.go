package stream

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StringAttr extracts a string attribute from a converted image.
func StringAttr(image map[string]types.AttributeValue, name string) string {
	if v, ok := image[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// NumberAttr extracts a number attribute from a converted image.
func NumberAttr(image map[string]types.AttributeValue, name string) int64 {
	if v, ok := image[name].(*types.AttributeValueMemberN); ok {
		n, _ := strconv.ParseInt(v.Value, 10, 64)
		return n
	}
	return 0
}

// BoolAttr extracts a boolean attribute from a converted image.
func BoolAttr(image map[string]types.AttributeValue, name string) bool {
	if v, ok := image[name].(*types.AttributeValueMemberBOOL); ok {
		return v.Value
	}
	return false
}

// StringListAttr extracts the strings of a list or string set attribute
// from a converted image.
func StringListAttr(image map[string]types.AttributeValue, name string) []string {
	switch v := image[name].(type) {
	case *types.AttributeValueMemberSS:
		return v.Value
	case *types.AttributeValueMemberL:
		var result []string
		for _, item := range v.Value {
			if s, ok := item.(*types.AttributeValueMemberS); ok {
				result = append(result, s.Value)
			}
		}
		return result
	}
	return nil
}
