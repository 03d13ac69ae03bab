package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type IJsonClient interface {
	Import(filePath string) ([]byte, error)
	Marshal(document any) ([]byte, error)
	Export(document any, filePath string) error
	Write(document any, writer io.Writer) error
}

type JsonClient struct {
	Compact bool
	Logger  *logrus.Logger
}

func NewJsonClient(compact bool, logger *logrus.Logger) *JsonClient {
	return &JsonClient{
		Compact: compact,
		Logger:  logger,
	}
}

// Decode parses a JSON document into a generic tree of maps, slices and
// scalars. Trailing data after the first value is rejected.
func Decode(content []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(content))

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after the JSON document")
	}
	return payload, nil
}

func (jsonClient *JsonClient) Import(filePath string) ([]byte, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	jsonClient.Logger.Debugf("Read %d bytes from %s", len(content), filePath)
	return content, nil
}

// Marshal renders the document with two-space indentation unless the client
// is compact. HTML characters in scripts and bodies are not escaped.
func (jsonClient *JsonClient) Marshal(document any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if !jsonClient.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}

func (jsonClient *JsonClient) Export(document any, filePath string) error {
	content, err := jsonClient.Marshal(document)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, append(content, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filePath, err)
	}
	jsonClient.Logger.Infof("Dynatrace document written to %s", filePath)
	return nil
}

func (jsonClient *JsonClient) Write(document any, writer io.Writer) error {
	content, err := jsonClient.Marshal(document)
	if err != nil {
		return err
	}
	if _, err := writer.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}
