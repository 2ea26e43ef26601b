package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDoc_RendersValidJSON(t *testing.T) {
	var doc struct {
		Info struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"info"`
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "pet-market-engine API", doc.Info.Title)
	assert.Equal(t, SwaggerInfo.Description, doc.Info.Description)
	for _, c := range []string{"market", "pet"} {
		for _, e := range []string{"init", "handle", "query"} {
			assert.Contains(t, doc.Paths, "/contracts/"+c+"/"+e)
		}
	}
}
