package stream

import (
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ConvertImage converts a stream image to SDK attribute values. The Lambda
// event package and the service SDK model attribute values as unrelated
// types; this bridges them so stream handlers can feed keys and images
// straight back into request builders.
func ConvertImage(image map[string]events.DynamoDBAttributeValue) map[string]types.AttributeValue {
	if len(image) == 0 {
		return nil
	}
	result := make(map[string]types.AttributeValue, len(image))
	for k, v := range image {
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a single stream attribute value, recursing through
// lists and maps.
func convertValue(v events.DynamoDBAttributeValue) types.AttributeValue {
	switch v.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: v.String()}
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: v.Number()}
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: v.Binary()}
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: v.Boolean()}
	case events.DataTypeList:
		items := v.List()
		list := make([]types.AttributeValue, 0, len(items))
		for _, item := range items {
			list = append(list, convertValue(item))
		}
		return &types.AttributeValueMemberL{Value: list}
	case events.DataTypeMap:
		m := v.Map()
		converted := make(map[string]types.AttributeValue, len(m))
		for k, item := range m {
			converted[k] = convertValue(item)
		}
		return &types.AttributeValueMemberM{Value: converted}
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: v.StringSet()}
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: v.NumberSet()}
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: v.BinarySet()}
	default:
		return &types.AttributeValueMemberNULL{Value: true}
	}
}
