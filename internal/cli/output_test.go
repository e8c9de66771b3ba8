package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/hotelrag/internal/expansion"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/security"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:         "pool hours",
		ExpandedQuery: "pool hours басейн",
		QueryTime:     3,
		Total:         1,
		Summary:       "Found 1 relevant document",
		Results: []models.SearchResultItem{{
			Rank: 1, DocumentID: "doc-1", ChunkIndex: 2, FileName: "amenities.pdf", DocumentType: "policy",
			Excerpt: strings.Repeat("Pool ", 60), Relevance: 0.91, HybridScore: 0.83, KeywordScore: 0.5, SemanticScore: 0.97,
		}},
	}
}

func TestWriteSearchResponse_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearchResponse(&buf, sampleResponse(), OutputText))

	out := buf.String()
	for _, want := range []string{
		"Found 1 results in 3ms",
		"Expanded: pool hours басейн",
		"Rank: 1 | Relevance: 0.91 (Hybrid: 0.83, Keyword: 0.50, Semantic: 0.97)",
		"Document: doc-1 #2 (amenities.pdf, policy)",
		"...",
		"Found 1 relevant document",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteSearchResponse_Blocked(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.SearchResponse{Blocked: true, BlockReason: security.ReasonInjection}
	require.NoError(t, WriteSearchResponse(&buf, resp, OutputText))
	assert.Equal(t, "Query blocked: "+security.ReasonInjection+"\n", buf.String())
}

func TestWriteSearchResponse_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearchResponse(&buf, sampleResponse(), OutputJSON))

	var decoded models.SearchResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded), "output is not valid JSON")
	assert.Equal(t, 1, decoded.Total)
	require.Len(t, decoded.Results, 1)
	assert.Equal(t, "doc-1", decoded.Results[0].DocumentID)
}

func TestWriteVerdict(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVerdict(&buf, security.Verdict{}, OutputText))
	assert.Equal(t, "allowed\n", buf.String())

	buf.Reset()
	verdict := security.Verdict{Blocked: true, Reason: security.OffTopicReason("cooking"), Category: "cooking"}
	require.NoError(t, WriteVerdict(&buf, verdict, OutputText))
	assert.Contains(t, buf.String(), "blocked: Off-topic request detected (cooking)")
	assert.Contains(t, buf.String(), "category: cooking")
}

func TestWriteExpansion(t *testing.T) {
	var buf bytes.Buffer
	report := ExpansionReport{
		ExpandedQuery: expansion.ExpandedQuery{Original: "стая", Expanded: "стая room", HasExpansion: true},
		Keywords:      []string{"стая"},
	}
	require.NoError(t, WriteExpansion(&buf, report, OutputText))
	assert.Contains(t, buf.String(), "Expanded:  стая room")
	assert.Contains(t, buf.String(), "Expansion: true")
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"TEXT", OutputText, false},
		{"json", OutputJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseOutputFormat(%q)", tt.in)
			continue
		}
		assert.NoError(t, err, "ParseOutputFormat(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseOutputFormat(%q)", tt.in)
	}
}
