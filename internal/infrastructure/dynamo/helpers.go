package dynamo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// compositeKey builds a DynamoDB primary key with two string attributes (PK + SK).
func compositeKey(pkName, pkValue, skName, skValue string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkName: &types.AttributeValueMemberS{Value: pkValue},
		skName: &types.AttributeValueMemberS{Value: skValue},
	}
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET
// expression. Keys are sorted so the expression is deterministic.
func buildUpdateExpr(updates map[string]interface{}) (expr string, names map[string]string, values map[string]types.AttributeValue, err error) {
	if len(updates) == 0 {
		return "", nil, nil, fmt.Errorf("no fields to update")
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names = make(map[string]string, len(keys))
	values = make(map[string]types.AttributeValue, len(keys))
	parts := make([]string, 0, len(keys))
	for i, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		names[nameKey] = k
		av, mErr := attributevalue.Marshal(updates[k])
		if mErr != nil {
			return "", nil, nil, fmt.Errorf("marshal field %s: %w", k, mErr)
		}
		values[valueKey] = av
		parts = append(parts, fmt.Sprintf("%s = %s", nameKey, valueKey))
	}
	return "SET " + strings.Join(parts, ", "), names, values, nil
}
