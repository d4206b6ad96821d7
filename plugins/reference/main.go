package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	pluginrpc "fastlog/internal/modules/plugin/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// references maps citation keys from the phase table to full literature
// references.
var references = map[string]string{
	"frayn-2010":   "Frayn KN. Metabolic Regulation: A Human Perspective. 3rd ed. Wiley-Blackwell; 2010.",
	"anton-2018":   "Anton SD, Moehl K, Donahoo WT, et al. Flipping the Metabolic Switch: Understanding and Applying the Health Benefits of Fasting. Obesity. 2018;26(2):254-268.",
	"de-cabo-2019": "de Cabo R, Mattson MP. Effects of Intermittent Fasting on Health, Aging, and Disease. N Engl J Med. 2019;381(26):2541-2551.",
	"mattson-2017": "Mattson MP, Longo VD, Harvie M. Impact of intermittent fasting on health and disease processes. Ageing Res Rev. 2017;39:46-58.",
	"ho-1988":      "Ho KY, Veldhuis JD, Johnson ML, et al. Fasting enhances growth hormone secretion and amplifies the complex rhythms of growth hormone secretion in man. J Clin Invest. 1988;81(4):968-975.",
	"cheng-2014":   "Cheng CW, Adams GB, Perin L, et al. Prolonged fasting reduces IGF-1/PKA to promote hematopoietic-stem-cell-based regeneration and reverse immunosuppression. Cell Stem Cell. 2014;14(6):810-823.",
}

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{
		Name:         "reference",
		Version:      "1.0.0",
		Capabilities: []string{"command", "reference"},
	}, nil
}

func (s *server) ListCommands(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.ListCommandsResponse, error) {
	return &pluginrpc.ListCommandsResponse{Commands: []pluginrpc.CommandDescriptor{
		{ID: "cite", Title: "Cite", Description: "Resolves a citation key to a full reference", Kind: "reference", InputSchemaJSON: `{"key":"string"}`, TimeoutMS: 2000},
		{ID: "keys", Title: "Keys", Description: "Lists every known citation key", Kind: "command", TimeoutMS: 2000},
	}}, nil
}

func (s *server) Execute(_ context.Context, in *pluginrpc.ExecuteRequest) (*pluginrpc.ExecuteResponse, error) {
	switch in.CommandID {
	case "cite":
		var payload struct {
			Key string `json:"key"`
		}
		if strings.TrimSpace(in.InputJSON) != "" {
			if err := json.Unmarshal([]byte(in.InputJSON), &payload); err != nil {
				return nil, fmt.Errorf("decode cite input: %w", err)
			}
		}
		key := strings.TrimSpace(payload.Key)
		reference, ok := references[key]
		if !ok {
			return &pluginrpc.ExecuteResponse{
				Stderr:   fmt.Sprintf("unknown citation key: %s", key),
				ExitCode: 1,
			}, nil
		}
		raw, _ := json.Marshal(map[string]string{"key": key, "reference": reference})
		return &pluginrpc.ExecuteResponse{Stdout: reference, OutputJSON: string(raw), ExitCode: 0}, nil
	case "keys":
		keys := make([]string, 0, len(references))
		for key := range references {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		raw, _ := json.Marshal(map[string]any{"keys": keys})
		return &pluginrpc.ExecuteResponse{Stdout: strings.Join(keys, "\n"), OutputJSON: string(raw), ExitCode: 0}, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", in.CommandID)
	}
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
