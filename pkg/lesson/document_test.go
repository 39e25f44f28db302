package lesson

import (
	"errors"
	"testing"

	"github.com/fulmenhq/lessonkit/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"object", `{"lesson_id":"D1-LESSON-001"}`, false},
		{"empty object", `{}`, false},
		{"byte order mark", "\xEF\xBB\xBF{\"a\":1}", false},
		{"invalid", `{"lesson_id":}`, true},
		{"array", `[{"lesson_id":"D1-LESSON-001"}]`, true},
		{"string", `"lesson"`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformed), "expected ErrMalformed, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, doc)
		})
	}
}

func TestDocumentID(t *testing.T) {
	doc, err := Parse([]byte(`{"lesson_id":"D2-LESSON-004"}`))
	require.NoError(t, err)
	assert.Equal(t, "D2-LESSON-004", doc.ID())

	doc, err = Parse([]byte(`{"lesson_id":42}`))
	require.NoError(t, err)
	assert.Equal(t, "", doc.ID())

	doc, err = Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "", doc.ID())
}

func TestFormatWritesRawUTF8(t *testing.T) {
	doc, err := Parse([]byte(`{"title":"\u00e9t\u00e9 \u2192 next","quote":"say \"hi\""}`))
	require.NoError(t, err)

	out, err := doc.Format(format.DefaultJSONOptions)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"title\": \"été → next\",\n  \"quote\": \"say \\\"hi\\\"\"\n}\n", string(out))
}

func TestTruthy(t *testing.T) {
	tests := map[string]bool{
		`null`:       false,
		`false`:      false,
		`true`:       true,
		`0`:          false,
		`0.0`:        false,
		`3`:          true,
		`""`:         false,
		`"x"`:        true,
		`[]`:         false,
		`[ ]`:        false,
		`[0]`:        true,
		`{}`:         false,
		`{"a":null}`: true,
	}
	for raw, want := range tests {
		assert.Equal(t, want, truthy(gjson.Parse(raw)), raw)
	}
	assert.False(t, truthy(gjson.Get(`{}`, "missing")))
}

func TestEnsureObject(t *testing.T) {
	doc, err := Parse([]byte(`{"a":null,"b":{"x":1},"c":"text"}`))
	require.NoError(t, err)

	assert.True(t, doc.ensureObject("a"))
	assert.Equal(t, "{}", doc.Get("a").Raw)
	assert.True(t, doc.ensureObject("b"))
	assert.Equal(t, `{"x":1}`, doc.Get("b").Raw)
	assert.False(t, doc.ensureObject("c"))
	assert.True(t, doc.ensureObject("d"))
	assert.True(t, doc.Get("d").IsObject())
	require.NoError(t, doc.Err())
}

func TestApplyPolicy(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		raw    string
		policy Policy
		want   Status
		after  string
	}{
		{"fill absent", `{}`, `"new"`, FillIfMissing, StatusAdded, "new"},
		{"fill empty", `{"f":""}`, `"new"`, FillIfMissing, StatusAdded, "new"},
		{"fill keeps existing", `{"f":"old"}`, `"new"`, FillIfMissing, StatusExists, "old"},
		{"overwrite existing", `{"f":"old"}`, `"new"`, Overwrite, StatusReplaced, "new"},
		{"overwrite absent", `{}`, `"new"`, Overwrite, StatusAdded, "new"},
		{"overwrite identical", `{"f":"same"}`, `"same"`, Overwrite, StatusUnchanged, "same"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.apply("f", []byte(tt.raw), tt.policy))
			assert.Equal(t, tt.after, doc.Get("f").String())
		})
	}
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "fill-if-missing", FillIfMissing.String())
	assert.Equal(t, "overwrite", Overwrite.String())
}

func TestIDFromFilename(t *testing.T) {
	assert.Equal(t, "D2-LESSON-004", IDFromFilename("D2-LESSON-004_Malware_Types.json"))
	assert.Equal(t, "D1-LESSON-002", IDFromFilename("/data/lessons/D1-LESSON-002.json"))
	assert.Equal(t, "", IDFromFilename("README.json"))
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "3", Domain("D3-LESSON-001"))
	assert.Equal(t, "", Domain("X3-LESSON-001"))
	assert.Equal(t, "", Domain("D"))
	assert.Equal(t, "", Domain("Dx"))
}
