package types

import "fmt"

type Issue struct {
	IssueID   string
	IssueType IssueType
	ItemIndex int
	ItemName  string
	Message   string
}

// CollectionLevel is the ItemIndex of issues that are not tied to a single item.
const CollectionLevel = -1

func (issue Issue) String() string {
	if issue.ItemIndex == CollectionLevel {
		return fmt.Sprintf("[%s] %s", issue.IssueType, issue.Message)
	}
	return fmt.Sprintf("[%s] item %d (%s): %s", issue.IssueType, issue.ItemIndex, issue.ItemName, issue.Message)
}

type IssueType string

const (
	IssueTypeNone                  IssueType = "None"
	IssueTypeInvalidCollection     IssueType = "InvalidCollection"
	IssueTypeMissingRequest        IssueType = "MissingRequest"
	IssueTypeMissingURL            IssueType = "MissingURL"
	IssueTypeUnsupportedBodyMode   IssueType = "UnsupportedBodyMode"
	IssueTypeInvalidURLEncodedBody IssueType = "InvalidURLEncodedBody"
	IssueTypeDuplicateEvent        IssueType = "DuplicateEvent"
	IssueTypeScriptSyntax          IssueType = "ScriptSyntax"
)

func (issueType IssueType) IsValidIssueType() bool {
	switch issueType {
	case IssueTypeNone,
		IssueTypeInvalidCollection,
		IssueTypeMissingRequest,
		IssueTypeMissingURL,
		IssueTypeUnsupportedBodyMode,
		IssueTypeInvalidURLEncodedBody,
		IssueTypeDuplicateEvent,
		IssueTypeScriptSyntax:
		return true
	default:
		return false
	}
}

// IsFatal reports whether the issue means the whole collection could not be read.
func (issueType IssueType) IsFatal() bool {
	return issueType == IssueTypeInvalidCollection
}
