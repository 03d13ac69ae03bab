package hcl

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"

	"github.com/dtsynthetic/postman-dynatrace-converter/types"
)

const (
	monitorResourceType = "dynatrace_http_monitor"
	defaultResourceName = "postman_collection"
)

type IHclClient interface {
	WriteMonitor(monitor types.TerraformMonitor, document types.TargetDocument, filePath string) error
}

type HclClient struct {
	Logger *logrus.Logger
}

func NewHclClient(logger *logrus.Logger) *HclClient {
	return &HclClient{
		Logger: logger,
	}
}

func (hclClient *HclClient) WriteMonitor(monitor types.TerraformMonitor, document types.TargetDocument, filePath string) error {
	content := RenderMonitor(monitor, document)

	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filePath, err)
	}

	hclClient.Logger.Infof("Terraform monitor %s.%s with %d requests written to %s", monitorResourceType, ResourceName(monitor), len(document.Requests), filePath)
	return nil
}

// RenderMonitor renders one dynatrace_http_monitor resource whose script
// holds every request of the document, in order.
func RenderMonitor(monitor types.TerraformMonitor, document types.TargetDocument) []byte {
	hclFile := hclwrite.NewEmptyFile()

	resourceBlock := hclFile.Body().AppendNewBlock("resource", []string{monitorResourceType, ResourceName(monitor)})
	resourceBody := resourceBlock.Body()

	name := monitor.Name
	if name == "" {
		name = defaultResourceName
	}
	frequency := monitor.Frequency
	if frequency <= 0 {
		frequency = types.DefaultTerraformFrequency
	}

	resourceBody.SetAttributeValue("name", cty.StringVal(name))
	resourceBody.SetAttributeValue("frequency", cty.NumberIntVal(int64(frequency)))
	resourceBody.SetAttributeValue("enabled", cty.BoolVal(monitor.Enabled))
	if len(monitor.Locations) > 0 {
		locations := make([]cty.Value, 0, len(monitor.Locations))
		for _, location := range monitor.Locations {
			locations = append(locations, cty.StringVal(location))
		}
		resourceBody.SetAttributeValue("locations", cty.ListVal(locations))
	}

	scriptBody := resourceBody.AppendNewBlock("script", nil).Body()
	for _, request := range document.Requests {
		appendRequest(scriptBody, request)
	}

	return hclFile.Bytes()
}

func appendRequest(scriptBody *hclwrite.Body, request types.TargetRequest) {
	requestBody := scriptBody.AppendNewBlock("request", nil).Body()

	requestBody.SetAttributeValue("description", cty.StringVal(request.Description))
	requestBody.SetAttributeValue("method", cty.StringVal(request.Method))
	requestBody.SetAttributeValue("url", cty.StringVal(request.URL))
	if request.RequestBody != nil {
		requestBody.SetAttributeValue("body", cty.StringVal(*request.RequestBody))
	}
	if request.PreProcessingScript != nil {
		requestBody.SetAttributeValue("pre_processing", cty.StringVal(*request.PreProcessingScript))
	}
	if request.PostProcessingScript != nil {
		requestBody.SetAttributeValue("post_processing", cty.StringVal(*request.PostProcessingScript))
	}

	configurationBody := requestBody.AppendNewBlock("configuration", nil).Body()
	configurationBody.SetAttributeValue("accept_any_certificate", cty.BoolVal(request.Configuration.AcceptAnyCertificate))
	configurationBody.SetAttributeValue("follow_redirects", cty.BoolVal(request.Configuration.FollowRedirects))
	if len(request.Configuration.RequestHeaders) > 0 {
		headersBody := configurationBody.AppendNewBlock("headers", nil).Body()
		for _, header := range request.Configuration.RequestHeaders {
			headerBody := headersBody.AppendNewBlock("header", nil).Body()
			headerBody.SetAttributeValue("name", cty.StringVal(header.Name))
			headerBody.SetAttributeValue("value", cty.StringVal(header.Value))
		}
	}

	validationBody := requestBody.AppendNewBlock("validation", nil).Body()
	for _, rule := range request.Validation.Rules {
		ruleBody := validationBody.AppendNewBlock("rule", nil).Body()
		ruleBody.SetAttributeValue("type", cty.StringVal(rule.Type))
		ruleBody.SetAttributeValue("pass_if_found", cty.BoolVal(rule.PassIfFound))
		ruleBody.SetAttributeValue("value", cty.StringVal(rule.Value))
	}
}

var nonIdentifierCharacters = regexp.MustCompile(`[^a-z0-9_]+`)

// ResourceName derives a Terraform resource label from the monitor. Labels
// must be identifiers, so everything else collapses to underscores.
func ResourceName(monitor types.TerraformMonitor) string {
	resourceName := monitor.ResourceName
	if resourceName == "" {
		resourceName = monitor.Name
	}
	resourceName = strings.Trim(nonIdentifierCharacters.ReplaceAllString(strings.ToLower(resourceName), "_"), "_")
	if resourceName == "" {
		return defaultResourceName
	}
	if resourceName[0] >= '0' && resourceName[0] <= '9' {
		resourceName = "monitor_" + resourceName
	}
	if !hclsyntax.ValidIdentifier(resourceName) {
		return defaultResourceName
	}
	return resourceName
}
