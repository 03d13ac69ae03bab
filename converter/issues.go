package converter

import (
	"crypto/sha256"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dtsynthetic/postman-dynatrace-converter/types"
)

type issueCollector struct {
	issues []types.Issue
	logger *logrus.Logger
}

func newIssueCollector(logger *logrus.Logger) *issueCollector {
	return &issueCollector{issues: []types.Issue{}, logger: logger}
}

func (collector *issueCollector) add(issueType types.IssueType, itemIndex int, itemName string, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	issue := types.Issue{
		IssueID:   getIdentityHash(fmt.Sprintf("%s/%d/%s", issueType, itemIndex, message)),
		IssueType: issueType,
		ItemIndex: itemIndex,
		ItemName:  itemName,
		Message:   message,
	}
	collector.logger.Warn(issue.String())
	collector.issues = append(collector.issues, issue)
}

func getIdentityHash(id string) string {
	sha256ID := sha256.Sum256([]byte(id))
	return fmt.Sprintf("%x", sha256ID)[0:7]
}
