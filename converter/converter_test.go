package converter

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtsynthetic/postman-dynatrace-converter/json"
	"github.com/dtsynthetic/postman-dynatrace-converter/script"
	"github.com/dtsynthetic/postman-dynatrace-converter/types"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestConverter(t *testing.T) *ConverterClient {
	translator, err := script.NewTranslator(nil)
	require.NoError(t, err)
	return NewConverterClient(translator, false, true, newTestLogger())
}

func issueTypes(issues []types.Issue) []types.IssueType {
	result := []types.IssueType{}
	for _, issue := range issues {
		result = append(result, issue.IssueType)
	}
	return result
}

type mockTranslator struct {
	Calls       int
	ValidateErr error
}

func (m *mockTranslator) TranslateScript(lines []string, isTestEvent bool) string {
	m.Calls++
	return strings.Join(lines, "|")
}

func (m *mockTranslator) Validate(name string, source string) error {
	return m.ValidateErr
}

func TestConvert_UrlEncodedBodyAndMissingURL(t *testing.T) {
	content := []byte(`{
		"item": [
			{
				"name": "Login",
				"request": {
					"method": "POST",
					"url": {"raw": "https://example.com/login"},
					"body": {"mode": "urlencoded", "urlencoded": [{"key": "a", "value": "b c"}]}
				}
			},
			{
				"name": "No URL",
				"request": {"method": "GET"}
			}
		]
	}`)

	document, issues, err := newTestConverter(t).Convert(content)
	require.NoError(t, err)

	require.Len(t, document.Requests, 2)
	require.NotNil(t, document.Requests[0].RequestBody)
	assert.Equal(t, "a=b%20c", *document.Requests[0].RequestBody)
	assert.Equal(t, "N/A", document.Requests[1].URL)
	assert.Equal(t, []types.IssueType{types.IssueTypeMissingURL}, issueTypes(issues))
	assert.Equal(t, 1, issues[0].ItemIndex)
	assert.Equal(t, "No URL", issues[0].ItemName)
}

func TestConvert_MissingItemList(t *testing.T) {
	document, issues, err := newTestConverter(t).Convert([]byte(`{"info": {"name": "empty"}}`))
	require.NoError(t, err)

	assert.Equal(t, types.TargetDocument{Version: "1.0", Requests: []types.TargetRequest{}}, document)
	require.Len(t, issues, 1)
	assert.Equal(t, types.IssueTypeInvalidCollection, issues[0].IssueType)
	assert.Equal(t, types.CollectionLevel, issues[0].ItemIndex)
	assert.True(t, issues[0].IssueType.IsFatal())
}

func TestConvert_ItemNotAList(t *testing.T) {
	document, issues, err := newTestConverter(t).Convert([]byte(`{"item": {"name": "x"}}`))
	require.NoError(t, err)

	assert.Empty(t, document.Requests)
	assert.Equal(t, []types.IssueType{types.IssueTypeInvalidCollection}, issueTypes(issues))
}

func TestConvert_ParseFailure(t *testing.T) {
	_, _, err := newTestConverter(t).Convert([]byte(`{"item": [`))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing Postman collection")
}

func TestConvert_TrailingCloserIsParseFailure(t *testing.T) {
	document, issues, err := newTestConverter(t).Convert([]byte(`{"item": [{"name": "a", "request": {"url": "https://a"}}]}]`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing Postman collection")
	assert.Empty(t, document.Requests)
	assert.Nil(t, issues)
}

func TestConvert_NormalizesPlaceholders(t *testing.T) {
	content := []byte(`{
		"item": [{
			"name": "Get {{user}}",
			"request": {
				"url": {"raw": "{{baseUrl}}/users/{{id}}", "host": ["{{baseUrl}}"]},
				"header": [{"key": "Authorization", "value": "Bearer {{token}}"}],
				"body": {"mode": "raw", "raw": "{\"id\": \"{{id}}\"}"}
			}
		}]
	}`)

	document, issues, err := newTestConverter(t).Convert(content)
	require.NoError(t, err)
	assert.Empty(t, issues)

	request := document.Requests[0]
	assert.Equal(t, "Get {user}", request.Description)
	assert.Equal(t, "{baseUrl}/users/{id}", request.URL)
	assert.Equal(t, []types.TargetHeader{{Name: "Authorization", Value: "Bearer {token}"}}, request.Configuration.RequestHeaders)
	assert.Equal(t, `{"id": "{id}"}`, *request.RequestBody)
}

func TestConvert_PreservesItemOrder(t *testing.T) {
	content := []byte(`{"item": [
		{"name": "one", "request": {"url": "https://a"}},
		{"name": "two", "request": {"url": "https://b"}},
		{"name": "three", "request": {"url": "https://c"}}
	]}`)

	document, _, err := newTestConverter(t).Convert(content)
	require.NoError(t, err)

	descriptions := []string{}
	for _, request := range document.Requests {
		descriptions = append(descriptions, request.Description)
	}
	assert.Equal(t, []string{"one", "two", "three"}, descriptions)
}

func TestConvert_SerializedDocument(t *testing.T) {
	content := []byte(`{"item": [{
		"name": "Create",
		"request": {
			"method": "POST",
			"url": "https://example.com",
			"header": [{"key": "Content-Type", "value": "application/json"}],
			"body": {"mode": "raw", "raw": "{}"}
		},
		"event": [{"listen": "prerequest", "script": {"exec": ["console.log(1)"]}}]
	}]}`)

	document, _, err := newTestConverter(t).Convert(content)
	require.NoError(t, err)

	rendered, err := json.NewJsonClient(true, newTestLogger()).Marshal(document)
	require.NoError(t, err)

	want := `{"version":"1.0","requests":[{"description":"Create","url":"https://example.com","method":"POST",` +
		`"validation":{"rules":[{"type":"httpStatusesList","value":">=400","passIfFound":false}]},` +
		`"configuration":{"acceptAnyCertificate":true,"followRedirects":true,"shouldNotPersistSensitiveData":false,` +
		`"requestHeaders":[{"name":"Content-Type","value":"application/json"}]},` +
		`"requestBody":"{}","preProcessingScript":"api.info(1)"}]}`
	assert.Equal(t, want, string(rendered))
}

func TestConvertCollection_MalformedItemsDoNotAbort(t *testing.T) {
	collection := map[string]any{
		"item": []any{
			nil,
			"not an item",
			map[string]any{"name": "ok", "request": map[string]any{"url": "https://ok"}},
		},
	}

	document, issues := newTestConverter(t).ConvertCollection(collection)

	require.Len(t, document.Requests, 3)
	for _, request := range document.Requests[:2] {
		assert.Equal(t, "Untitled", request.Description)
		assert.Equal(t, "N/A", request.URL)
		assert.Equal(t, "GET", request.Method)
	}
	assert.Equal(t, "https://ok", document.Requests[2].URL)
	assert.Equal(t, []types.IssueType{
		types.IssueTypeMissingRequest, types.IssueTypeMissingURL,
		types.IssueTypeMissingRequest, types.IssueTypeMissingURL,
	}, issueTypes(issues))
}

func TestConvertCollection_FoldersKeptByDefault(t *testing.T) {
	collection := map[string]any{
		"item": []any{
			map[string]any{
				"name": "Users",
				"item": []any{map[string]any{"name": "List", "request": map[string]any{"url": "https://u"}}},
			},
		},
	}

	document, _ := newTestConverter(t).ConvertCollection(collection)

	require.Len(t, document.Requests, 1)
	assert.Equal(t, "Users", document.Requests[0].Description)
	assert.Equal(t, "N/A", document.Requests[0].URL)
}

func TestConvertCollection_FlattenFolders(t *testing.T) {
	collection := map[string]any{
		"item": []any{
			map[string]any{"name": "First", "request": map[string]any{"url": "https://first"}},
			map[string]any{
				"name": "Users",
				"item": []any{
					map[string]any{"name": "List", "request": map[string]any{"url": "https://list"}},
					map[string]any{
						"name": "Admin",
						"item": []any{map[string]any{"name": "Delete", "request": map[string]any{"url": "https://delete", "method": "DELETE"}}},
					},
				},
			},
			map[string]any{"name": "Last", "request": map[string]any{"url": "https://last"}},
		},
	}

	converterClient := newTestConverter(t)
	converterClient.FlattenFolders = true
	document, issues := converterClient.ConvertCollection(collection)

	assert.Empty(t, issues)
	descriptions := []string{}
	for _, request := range document.Requests {
		descriptions = append(descriptions, request.Description)
	}
	assert.Equal(t, []string{"First", "Users / List", "Users / Admin / Delete", "Last"}, descriptions)
	assert.Equal(t, "DELETE", document.Requests[2].Method)
}

func TestConvertCollection_UsesInjectedTranslator(t *testing.T) {
	translator := &mockTranslator{}
	converterClient := NewConverterClient(translator, false, false, newTestLogger())

	collection := map[string]any{"item": []any{map[string]any{
		"request": map[string]any{"url": "https://x"},
		"event": []any{
			map[string]any{"listen": "test", "script": map[string]any{"exec": []any{"a", "b"}}},
		},
	}}}

	document, _ := converterClient.ConvertCollection(collection)

	assert.Equal(t, 1, translator.Calls)
	assert.Equal(t, "a|b", *document.Requests[0].PostProcessingScript)
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "My API", CollectionName(map[string]any{"info": map[string]any{"name": "My API"}}))
	assert.Equal(t, "", CollectionName(map[string]any{}))
	assert.Equal(t, "", CollectionName(nil))
}
