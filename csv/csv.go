package csv

import (
	csvwriter "encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/dtsynthetic/postman-dynatrace-converter/types"
)

type IIssueCsvClient interface {
	Export(issues []types.Issue, filePath string) error
}

type IssueCsvClient struct {
	IssueCsv *IssueCsv
	Logger   *logrus.Logger
}

type IssueCsv struct {
	Header []string
	Rows   []*IssueCsvRow
}

func NewIssueCsvClient(logger *logrus.Logger) *IssueCsvClient {
	return &IssueCsvClient{
		IssueCsv: &IssueCsv{Header: []string{"Issue ID", "Issue Type", "Item Index", "Item Name", "Message"}},
		Logger:   logger,
	}
}

func (csv *IssueCsv) AddRow(row *IssueCsvRow) {
	csv.Rows = append(csv.Rows, row)
}

type IssueCsvRow struct {
	IssueID   string
	IssueType types.IssueType
	ItemIndex int
	ItemName  string
	Message   string
}

func (csvClient *IssueCsvClient) Export(issues []types.Issue, filePath string) error {
	csvClient.IssueCsv.Rows = nil

	for _, issue := range issues {
		csvClient.IssueCsv.AddRow(&IssueCsvRow{
			IssueID:   issue.IssueID,
			IssueType: issue.IssueType,
			ItemIndex: issue.ItemIndex,
			ItemName:  issue.ItemName,
			Message:   issue.Message,
		})
	}

	sort.Sort(ByIssueTypeItemIndexAndMessage(csvClient.IssueCsv.Rows))

	return csvClient.writeCsv(filePath)
}

func (csvClient *IssueCsvClient) writeCsv(filePath string) error {
	csvData := [][]string{csvClient.IssueCsv.Header}
	for _, issue := range csvClient.IssueCsv.Rows {
		itemIndex := ""
		if issue.ItemIndex != types.CollectionLevel {
			itemIndex = strconv.Itoa(issue.ItemIndex)
		}
		csvData = append(csvData, []string{
			issue.IssueID,
			string(issue.IssueType),
			itemIndex,
			issue.ItemName,
			issue.Message,
		})
	}

	csvFile, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filePath, err)
	}
	defer csvFile.Close()

	csvWriter := csvwriter.NewWriter(csvFile)
	if err := csvWriter.WriteAll(csvData); err != nil {
		return fmt.Errorf("writing %s: %w", filePath, err)
	}
	csvClient.Logger.Infof("%d issues written to %s", len(csvClient.IssueCsv.Rows), filePath)
	return nil
}

type ByIssueTypeItemIndexAndMessage []*IssueCsvRow

func (o ByIssueTypeItemIndexAndMessage) Len() int      { return len(o) }
func (o ByIssueTypeItemIndexAndMessage) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o ByIssueTypeItemIndexAndMessage) Less(i, j int) bool {
	if o[i].IssueType != o[j].IssueType {
		return o[i].IssueType < o[j].IssueType
	}

	if o[i].ItemIndex != o[j].ItemIndex {
		return o[i].ItemIndex < o[j].ItemIndex
	}

	return o[i].Message < o[j].Message
}
