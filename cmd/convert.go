/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dtsynthetic/postman-dynatrace-converter/converter"
	"github.com/dtsynthetic/postman-dynatrace-converter/csv"
	"github.com/dtsynthetic/postman-dynatrace-converter/filepathparser"
	"github.com/dtsynthetic/postman-dynatrace-converter/hcl"
	"github.com/dtsynthetic/postman-dynatrace-converter/json"
	"github.com/dtsynthetic/postman-dynatrace-converter/script"
	"github.com/dtsynthetic/postman-dynatrace-converter/types"
)

var errInvalidCollection = errors.New("The file is not a valid Postman collection.")

// swapped in tests
var copyToClipboard = clipboard.WriteAll

type convertOptions struct {
	InputPath           string
	OutputPath          string
	IssuesCsvPath       string
	TerraformOutputPath string
	Copy                bool
	FlattenFolders      bool
	ValidateScripts     bool
	Compact             bool
	ScriptReplacements  []types.ScriptReplacement
	TerraformMonitor    types.TerraformMonitor
}

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a Postman collection into a Dynatrace synthetic monitor document",
	Long: `The convert command reads a Postman collection export and writes the
Dynatrace synthetic HTTP monitor document:

1. Rewrites {{variable}} placeholders to {variable} everywhere in the collection
2. Maps every item to a request (URL, method, headers, raw or urlencoded body)
3. Translates prerequest and test scripts to the Dynatrace script API
4. Writes the JSON document to a file or stdout
5. (Optional) Writes an issues CSV, a Terraform dynatrace_http_monitor resource
   and copies the JSON to the clipboard

Examples:
  # Print the converted document
  postman-dynatrace-converter convert --input ./api.postman_collection.json

  # Write the document, the issues found and a Terraform resource
  postman-dynatrace-converter convert -i ./api.json -o ./monitor.json -c ./issues.csv -t ./monitor.tf`,
	Run: func(cmd *cobra.Command, args []string) {
		scriptReplacements, err := parseScriptReplacements(viper.Get("scriptReplacements"))
		if err != nil {
			log.Fatalf("Error reading scriptReplacements: %v", err)
		}

		options := convertOptions{
			InputPath:           viper.GetString("input"),
			OutputPath:          viper.GetString("output"),
			IssuesCsvPath:       viper.GetString("issuesCsv"),
			TerraformOutputPath: viper.GetString("terraformOutput"),
			Copy:                viper.GetBool("copy"),
			FlattenFolders:      viper.GetBool("flattenFolders"),
			ValidateScripts:     viper.GetBool("validateScripts"),
			Compact:             viper.GetBool("compact"),
			ScriptReplacements:  scriptReplacements,
			TerraformMonitor: types.TerraformMonitor{
				ResourceName: viper.GetString("terraformResourceName"),
				Name:         viper.GetString("terraformName"),
				Frequency:    viper.GetInt("terraformFrequency"),
				Locations:    viper.GetStringSlice("terraformLocations"),
				Enabled:      true,
			},
		}

		if _, err := runConvert(options, cmd.OutOrStdout(), log); err != nil {
			log.Fatal(err)
		}
	},
}

func runConvert(options convertOptions, stdout io.Writer, logger *logrus.Logger) ([]types.Issue, error) {
	if options.InputPath == "" {
		return nil, errors.New("an input collection is required, use --input")
	}
	inputPath, err := filepathparser.ParsePath(options.InputPath)
	if err != nil {
		return nil, fmt.Errorf("Error getting input path: %w", err)
	}

	translator, err := script.NewTranslator(options.ScriptReplacements)
	if err != nil {
		return nil, err
	}

	jsonClient := json.NewJsonClient(options.Compact, logger)
	converterClient := converter.NewConverterClient(
		translator,
		options.FlattenFolders,
		options.ValidateScripts,
		logger,
	)

	content, err := jsonClient.Import(inputPath)
	if err != nil {
		return nil, err
	}

	document, issues, err := converterClient.Convert(content)
	if err != nil {
		logger.Debugf("Conversion failed: %v", err)
		return nil, errors.New("Error during conversion. Ensure the file is a valid Postman JSON.")
	}

	if options.OutputPath == "" || options.OutputPath == "-" {
		if err := jsonClient.Write(document, stdout); err != nil {
			return issues, err
		}
	} else {
		outputPath, err := filepathparser.ParsePath(options.OutputPath)
		if err != nil {
			return issues, fmt.Errorf("Error getting output path: %w", err)
		}
		if err := jsonClient.Export(document, outputPath); err != nil {
			return issues, err
		}
	}

	if options.Copy {
		rendered, err := jsonClient.Marshal(document)
		if err != nil {
			return issues, err
		}
		if err := copyToClipboard(string(rendered)); err != nil {
			logger.Warnf("Could not copy the document to the clipboard: %v", err)
		} else {
			logger.Info("Document copied to the clipboard")
		}
	}

	if options.IssuesCsvPath != "" {
		issuesCsvPath, err := filepathparser.ParsePath(options.IssuesCsvPath)
		if err != nil {
			return issues, fmt.Errorf("Error getting issues CSV path: %w", err)
		}
		if err := csv.NewIssueCsvClient(logger).Export(issues, issuesCsvPath); err != nil {
			return issues, err
		}
	}

	if options.TerraformOutputPath != "" {
		terraformOutputPath, err := filepathparser.ParsePath(options.TerraformOutputPath)
		if err != nil {
			return issues, fmt.Errorf("Error getting Terraform output path: %w", err)
		}
		monitor := options.TerraformMonitor
		if monitor.Name == "" {
			collection, _ := json.Decode(content)
			monitor.Name = converter.CollectionName(collection)
		}
		if err := hcl.NewHclClient(logger).WriteMonitor(monitor, document, terraformOutputPath); err != nil {
			return issues, err
		}
	}

	for _, issue := range issues {
		if issue.IssueType.IsFatal() {
			return issues, errInvalidCollection
		}
	}

	logger.Infof("Converted %d requests with %d issues", len(document.Requests), len(issues))
	return issues, nil
}

// parseScriptReplacements reads the scriptReplacements config list. Each
// entry has either a regex or a literal pattern and a replacement.
func parseScriptReplacements(raw any) ([]types.ScriptReplacement, error) {
	if raw == nil {
		return nil, nil
	}

	rawReplacements, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", raw)
	}

	scriptReplacements := []types.ScriptReplacement{}
	for i, rawReplacement := range rawReplacements {
		replacementMap, ok := rawReplacement.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d: expected a mapping, got %T", i, rawReplacement)
		}

		regex, hasRegex := replacementMap["regex"].(string)
		literal, hasLiteral := replacementMap["literal"].(string)
		if hasRegex == hasLiteral {
			return nil, fmt.Errorf("entry %d: exactly one of regex or literal is required", i)
		}

		replacement := ""
		if _, ok := replacementMap["replacement"]; ok {
			replacement, ok = replacementMap["replacement"].(string)
			if !ok {
				return nil, fmt.Errorf("entry %d: replacement must be a string", i)
			}
		}

		scriptReplacement := types.ScriptReplacement{Pattern: literal, Replacement: replacement}
		if hasRegex {
			scriptReplacement = types.ScriptReplacement{Pattern: regex, Replacement: replacement, IsRegex: true}
		}
		scriptReplacements = append(scriptReplacements, scriptReplacement)
	}
	return scriptReplacements, nil
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("input", "i", "", "Postman collection file to convert")
	viper.BindPFlag("input", convertCmd.Flags().Lookup("input"))
	convertCmd.Flags().StringP("output", "o", "", "Output file for the Dynatrace document (stdout when empty or -)")
	viper.BindPFlag("output", convertCmd.Flags().Lookup("output"))
	convertCmd.Flags().StringP("issuesCsv", "c", "", "CSV file path to write conversion issues to")
	viper.BindPFlag("issuesCsv", convertCmd.Flags().Lookup("issuesCsv"))
	convertCmd.Flags().StringP("terraformOutput", "t", "", "File path to write a Terraform dynatrace_http_monitor resource to")
	viper.BindPFlag("terraformOutput", convertCmd.Flags().Lookup("terraformOutput"))
	convertCmd.Flags().BoolP("copy", "y", false, "Copy the converted document to the clipboard")
	viper.BindPFlag("copy", convertCmd.Flags().Lookup("copy"))
	convertCmd.Flags().BoolP("flattenFolders", "f", false, "Convert requests nested in folders instead of the folders themselves")
	viper.BindPFlag("flattenFolders", convertCmd.Flags().Lookup("flattenFolders"))
	convertCmd.Flags().Bool("validateScripts", true, "Check translated scripts for JavaScript syntax errors")
	viper.BindPFlag("validateScripts", convertCmd.Flags().Lookup("validateScripts"))
	convertCmd.Flags().Bool("compact", false, "Write the document without indentation")
	viper.BindPFlag("compact", convertCmd.Flags().Lookup("compact"))

	viper.SetDefault("terraformFrequency", types.DefaultTerraformFrequency)
}
