package converter

import (
	"fmt"
	"strings"

	"github.com/dtsynthetic/postman-dynatrace-converter/types"
)

// MapRequest converts one Postman item into a Dynatrace request. itemIndex is
// only used to locate the item in reported issues.
func (converterClient *ConverterClient) MapRequest(itemIndex int, item any) (types.TargetRequest, []types.Issue) {
	collector := newIssueCollector(converterClient.Logger)
	request := converterClient.mapRequest(collector, itemIndex, item, nil)
	return request, collector.issues
}

func (converterClient *ConverterClient) mapRequest(collector *issueCollector, itemIndex int, item any, folderPath []string) types.TargetRequest {
	target := types.NewTargetRequest()

	itemMap, _ := asMap(item)
	if name, ok := nonEmptyString(itemMap[types.PostmanKeyName]); ok {
		target.Description = name
	}
	if len(folderPath) > 0 {
		target.Description = strings.Join(append(append([]string{}, folderPath...), target.Description), " / ")
	}

	converterClient.Logger.Tracef("Mapping item %d: %s", itemIndex, target.Description)

	request, ok := asMap(itemMap[types.PostmanKeyRequest])
	if !ok {
		collector.add(types.IssueTypeMissingRequest, itemIndex, target.Description, "item has no request object, defaults are used")
	}

	if url, ok := mapURL(request[types.PostmanKeyURL]); ok {
		target.URL = url
	} else {
		collector.add(types.IssueTypeMissingURL, itemIndex, target.Description, "request has no url, using %q", types.DefaultURL)
	}

	if method, ok := nonEmptyString(request[types.PostmanKeyMethod]); ok {
		target.Method = method
	}

	target.RequestBody = converterClient.mapBody(collector, itemIndex, target.Description, request[types.PostmanKeyBody])
	target.Configuration.RequestHeaders = mapHeaders(request[types.PostmanKeyHeader])

	converterClient.mapEvents(collector, itemIndex, &target, itemMap[types.PostmanKeyEvent])

	return target
}

func mapURL(url any) (string, bool) {
	switch value := url.(type) {
	case map[string]any:
		return nonEmptyString(value[types.PostmanKeyRaw])
	case string:
		return value, value != ""
	default:
		return "", false
	}
}

func (converterClient *ConverterClient) mapBody(collector *issueCollector, itemIndex int, itemName string, body any) *string {
	bodyMap, ok := asMap(body)
	if !ok {
		return nil
	}

	mode, _ := bodyMap[types.PostmanKeyMode].(string)
	switch types.BodyMode(mode) {
	case types.BodyModeRaw:
		raw, ok := bodyMap[types.PostmanKeyRaw].(string)
		if !ok {
			return nil
		}
		return &raw
	case types.BodyModeURLEncoded:
		pairs, ok := asSlice(bodyMap[types.PostmanKeyURLEncoded])
		if !ok {
			collector.add(types.IssueTypeInvalidURLEncodedBody, itemIndex, itemName, "no valid urlencoded data found, request body is omitted")
			return nil
		}
		encoded := make([]string, 0, len(pairs))
		for _, pair := range pairs {
			pairMap, _ := asMap(pair)
			encoded = append(encoded, fmt.Sprintf("%s=%s",
				encodeURIComponent(stringify(pairMap[types.PostmanKeyKey])),
				encodeURIComponent(stringify(pairMap[types.PostmanKeyValue]))))
		}
		requestBody := strings.Join(encoded, "&")
		return &requestBody
	default:
		collector.add(types.IssueTypeUnsupportedBodyMode, itemIndex, itemName, "body mode %q is not supported, request body is omitted", mode)
		return nil
	}
}

func mapHeaders(header any) []types.TargetHeader {
	headers, ok := asSlice(header)
	if !ok || len(headers) == 0 {
		return nil
	}

	requestHeaders := make([]types.TargetHeader, 0, len(headers))
	for _, entry := range headers {
		entryMap, _ := asMap(entry)
		requestHeaders = append(requestHeaders, types.TargetHeader{
			Name:  stringify(entryMap[types.PostmanKeyKey]),
			Value: stringify(entryMap[types.PostmanKeyValue]),
		})
	}
	return requestHeaders
}

// mapEvents assigns the translated test and pre-request scripts. When an item
// carries several events of the same kind the last one wins.
func (converterClient *ConverterClient) mapEvents(collector *issueCollector, itemIndex int, target *types.TargetRequest, event any) {
	events, ok := asSlice(event)
	if !ok {
		return
	}

	for _, entry := range events {
		eventMap, _ := asMap(entry)
		listen, _ := eventMap[types.PostmanKeyListen].(string)

		var destination **string
		switch types.EventListen(listen) {
		case types.EventListenTest:
			destination = &target.PostProcessingScript
		case types.EventListenPreRequest:
			destination = &target.PreProcessingScript
		default:
			converterClient.Logger.Debugf("Ignoring %q event on item %d", listen, itemIndex)
			continue
		}

		if *destination != nil {
			collector.add(types.IssueTypeDuplicateEvent, itemIndex, target.Description, "more than one %q event, the last one is used", listen)
		}

		isTestEvent := types.EventListen(listen) == types.EventListenTest
		script := converterClient.Translator.TranslateScript(execLines(eventMap[types.PostmanKeyScript]), isTestEvent)

		if converterClient.ValidateScripts {
			scriptName := fmt.Sprintf("item %d %s", itemIndex, listen)
			if err := converterClient.Translator.Validate(scriptName, script); err != nil {
				collector.add(types.IssueTypeScriptSyntax, itemIndex, target.Description, "%v", err)
			}
		}

		*destination = &script
	}
}

// execLines reads script.exec, which Postman writes either as a list of lines
// or as a single string.
func execLines(script any) []string {
	scriptMap, _ := asMap(script)
	switch exec := scriptMap[types.PostmanKeyExec].(type) {
	case string:
		return strings.Split(exec, "\n")
	case []any:
		lines := make([]string, 0, len(exec))
		for _, line := range exec {
			lines = append(lines, stringify(line))
		}
		return lines
	default:
		return nil
	}
}
