package out

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	phaseout "fastlog/internal/modules/phase/port/out"
	plugindto "fastlog/internal/modules/plugin/dto"
	pluginin "fastlog/internal/modules/plugin/port/in"
)

const (
	referencePluginName = "reference"
	citeCommandID       = "cite"
)

// PluginReferenceAdapter resolves citation keys through the reference
// plugin's cite command.
type PluginReferenceAdapter struct {
	plugins  pluginin.Usecase
	dataPath string
}

func NewPluginReferenceAdapter(plugins pluginin.Usecase, dataPath string) phaseout.ReferenceResolver {
	return &PluginReferenceAdapter{plugins: plugins, dataPath: dataPath}
}

func (a *PluginReferenceAdapter) Resolve(ctx context.Context, citationKey string) (string, error) {
	input, err := json.Marshal(map[string]string{"key": citationKey})
	if err != nil {
		return "", fmt.Errorf("encode citation request: %w", err)
	}
	output, err := a.plugins.Resolve(ctx, plugindto.ExecuteInput{
		PluginName: referencePluginName,
		CommandID:  citeCommandID,
		InputJSON:  string(input),
		DataPath:   a.dataPath,
	})
	if err != nil {
		return "", err
	}
	if output.OutputJSON != "" {
		var payload struct {
			Reference string `json:"reference"`
		}
		if err := json.Unmarshal([]byte(output.OutputJSON), &payload); err != nil {
			return "", fmt.Errorf("decode citation response: %w", err)
		}
		if payload.Reference != "" {
			return payload.Reference, nil
		}
	}
	if reference := strings.TrimSpace(output.Stdout); reference != "" {
		return reference, nil
	}
	return "", fmt.Errorf("reference plugin returned no reference for %q", citationKey)
}
