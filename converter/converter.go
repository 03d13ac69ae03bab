// Package converter turns a Postman collection into a Dynatrace synthetic
// monitor import document.
package converter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dtsynthetic/postman-dynatrace-converter/json"
	"github.com/dtsynthetic/postman-dynatrace-converter/placeholder"
	"github.com/dtsynthetic/postman-dynatrace-converter/script"
	"github.com/dtsynthetic/postman-dynatrace-converter/types"
)

type IConverterClient interface {
	Convert(content []byte) (types.TargetDocument, []types.Issue, error)
	ConvertCollection(collection any) (types.TargetDocument, []types.Issue)
}

type ConverterClient struct {
	Translator      script.ITranslator
	FlattenFolders  bool
	ValidateScripts bool
	Logger          *logrus.Logger
}

func NewConverterClient(translator script.ITranslator, flattenFolders bool, validateScripts bool, logger *logrus.Logger) *ConverterClient {
	return &ConverterClient{
		Translator:      translator,
		FlattenFolders:  flattenFolders,
		ValidateScripts: validateScripts,
		Logger:          logger,
	}
}

// Convert parses a Postman collection, normalizes its placeholders and
// converts it. Only a parse failure is returned as an error.
func (converterClient *ConverterClient) Convert(content []byte) (types.TargetDocument, []types.Issue, error) {
	collection, err := json.Decode(content)
	if err != nil {
		return types.TargetDocument{}, nil, fmt.Errorf("parsing Postman collection: %w", err)
	}

	document, issues := converterClient.ConvertCollection(placeholder.Normalize(collection))
	return document, issues, nil
}

// ConvertCollection maps every item of an already decoded collection, in
// order. A collection without an item list yields an empty document and an
// InvalidCollection issue.
func (converterClient *ConverterClient) ConvertCollection(collection any) (types.TargetDocument, []types.Issue) {
	document := types.NewTargetDocument()
	collector := newIssueCollector(converterClient.Logger)

	collectionMap, _ := asMap(collection)
	items, ok := asSlice(collectionMap[types.PostmanKeyItem])
	if !ok {
		collector.add(types.IssueTypeInvalidCollection, types.CollectionLevel, "", "the file is not a valid Postman collection: no item list found")
		return document, collector.issues
	}

	entries := converterClient.collectEntries(items, nil)
	converterClient.Logger.Infof("Converting %d requests from collection %q", len(entries), CollectionName(collection))

	for i, entry := range entries {
		document.Requests = append(document.Requests, converterClient.mapRequest(collector, i, entry.item, entry.folderPath))
	}

	if len(collector.issues) > 0 {
		converterClient.Logger.Warnf("Found %d issues while converting the collection", len(collector.issues))
	} else {
		converterClient.Logger.Debug("No issues found while converting the collection")
	}

	return document, collector.issues
}

type itemEntry struct {
	item       any
	folderPath []string
}

func (converterClient *ConverterClient) collectEntries(items []any, folderPath []string) []itemEntry {
	entries := make([]itemEntry, 0, len(items))
	for _, item := range items {
		if converterClient.FlattenFolders {
			if children, name, ok := folder(item); ok {
				converterClient.Logger.Debugf("Flattening folder %q with %d items", name, len(children))
				childPath := append(append([]string{}, folderPath...), name)
				entries = append(entries, converterClient.collectEntries(children, childPath)...)
				continue
			}
		}
		entries = append(entries, itemEntry{item: item, folderPath: folderPath})
	}
	return entries
}

func folder(item any) ([]any, string, bool) {
	itemMap, ok := asMap(item)
	if !ok {
		return nil, "", false
	}
	if _, hasRequest := itemMap[types.PostmanKeyRequest]; hasRequest {
		return nil, "", false
	}
	children, ok := asSlice(itemMap[types.PostmanKeyItem])
	if !ok {
		return nil, "", false
	}
	name, _ := itemMap[types.PostmanKeyName].(string)
	return children, name, true
}

// CollectionName returns info.name, or the empty string when it is missing.
func CollectionName(collection any) string {
	collectionMap, _ := asMap(collection)
	info, _ := asMap(collectionMap[types.PostmanKeyInfo])
	name, _ := info[types.PostmanKeyName].(string)
	return name
}
