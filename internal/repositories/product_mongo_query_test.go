package repositories

import (
	"math"
	"regexp"
	"testing"

	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// matches evaluates a Mongo regex the way the server does for the
// options it carries.
func matches(t *testing.T, re primitive.Regex, s string) bool {
	t.Helper()
	require.Equal(t, "i", re.Options)
	return regexp.MustCompile("(?i)" + re.Pattern).MatchString(s)
}

func TestProductFindQuery_Category(t *testing.T) {
	tests := []struct {
		term  string
		match []string
		miss  []string
	}{
		{"PHO", []string{"Phone", "Smartphone", "phone"}, []string{"Laptop"}},
		{"top", []string{"Laptop", "DESKTOP"}, []string{"Phone"}},
		{".*", []string{"a.*b"}, []string{"Phone", ""}},
		{"%", []string{"100%"}, []string{"Phone"}},
		{"(a", []string{"(A)"}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			query, _ := productFindQuery(models.ProductFilter{Category: tt.term})
			re, ok := query["category.name"].(primitive.Regex)
			require.True(t, ok, "category.name should be a regex, got %T", query["category.name"])
			for _, s := range tt.match {
				assert.True(t, matches(t, re, s), "%q should match %q", tt.term, s)
			}
			for _, s := range tt.miss {
				assert.False(t, matches(t, re, s), "%q should not match %q", tt.term, s)
			}
		})
	}
}

func TestProductFindQuery_NoCategory(t *testing.T) {
	query, _ := productFindQuery(models.ProductFilter{Limit: 4})
	assert.Equal(t, bson.M{}, query)
}

func TestProductFindQuery_Paging(t *testing.T) {
	_, opts := productFindQuery(models.ProductFilter{Limit: 2, Skip: 4})
	require.NotNil(t, opts.Limit)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(2), *opts.Limit)
	assert.Equal(t, int64(4), *opts.Skip)
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, opts.Sort)

	_, opts = productFindQuery(models.ProductFilter{Limit: 4, Skip: math.MaxInt})
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(math.MaxInt64), *opts.Skip)

	_, opts = productFindQuery(models.ProductFilter{})
	assert.Nil(t, opts.Limit)
	assert.Nil(t, opts.Skip)
}
