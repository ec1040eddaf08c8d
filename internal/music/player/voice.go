package player

import "github.com/bwmarrin/discordgo"

type discordSink struct {
	vc *discordgo.VoiceConnection
}

func (s discordSink) OpusSend() chan<- []byte { return s.vc.OpusSend }
func (s discordSink) Speaking(b bool) error  { return s.vc.Speaking(b) }
func (s discordSink) ChannelID() string      { return s.vc.ChannelID }
func (s discordSink) Disconnect() error      { return s.vc.Disconnect() }

// DiscordConnector joins voice channels of guildID through dg.
func DiscordConnector(dg *discordgo.Session, guildID string) Connector {
	return func(channelID string) (Sink, error) {
		vc, err := dg.ChannelVoiceJoin(guildID, channelID, false, true)
		if err != nil {
			return nil, err
		}
		return discordSink{vc: vc}, nil
	}
}
