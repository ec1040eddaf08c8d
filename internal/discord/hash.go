package discord

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// hashCommand fingerprints the parts of a definition Discord cares about.
// IDs and versions assigned by Discord are ignored and options are sorted.
func hashCommand(def *discordgo.ApplicationCommand) string {
	obj := map[string]any{
		"name":        def.Name,
		"description": def.Description,
		"type":        def.Type,
	}
	if def.DefaultMemberPermissions != nil {
		obj["default_member_permissions"] = *def.DefaultMemberPermissions
	}
	if len(def.Options) > 0 {
		obj["options"] = hashableOptions(def.Options)
	}

	data, _ := json.Marshal(obj)
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func hashableOptions(opts []*discordgo.ApplicationCommandOption) []map[string]any {
	out := make([]map[string]any, len(opts))
	for i, o := range opts {
		entry := map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
			"max_value":   o.MaxValue,
		}
		if o.MinValue != nil {
			entry["min_value"] = *o.MinValue
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]any, len(o.Choices))
			for j, c := range o.Choices {
				choices[j] = map[string]any{"name": c.Name, "value": c.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = hashableOptions(o.Options)
		}
		out[i] = entry
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i]["name"].(string) < out[j]["name"].(string)
	})
	return out
}
