package repository

import (
	"testing"

	"call-directory/internal/domain/call"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The table schema pins these attribute names: the partition key, the
// delete condition attribute and the secondary index key all reference
// them by name, so a drift in the struct tags would corrupt the
// conditional-write semantics silently.
func TestRecordWireAttributeNames(t *testing.T) {
	rec := call.Record{
		GroupID:       "g1",
		CallID:        "c1",
		BackendHost:   "10.0.0.1",
		BackendRegion: "us1",
		Creator:       "u1",
	}

	item, err := attributevalue.MarshalMap(rec)
	require.NoError(t, err)

	wantAttrs := map[string]string{
		groupIDAttr: "g1",
		callIDAttr:  "c1",
		"jvbHost":   "10.0.0.1",
		regionAttr:  "us1",
		"creator":   "u1",
	}
	require.Len(t, item, len(wantAttrs))
	for attr, want := range wantAttrs {
		av, ok := item[attr].(*types.AttributeValueMemberS)
		require.True(t, ok, "attribute %s missing or not a string", attr)
		assert.Equal(t, want, av.Value)
	}

	var back call.Record
	require.NoError(t, attributevalue.UnmarshalMap(item, &back))
	assert.Equal(t, rec, back)
}
