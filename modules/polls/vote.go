package polls

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api"
	"github.com/lordralex/absol/api/logger"
	"github.com/lordralex/absol/polling"
)

func (m *Module) runVote(ds *discordgo.Session, i *discordgo.InteractionCreate, id *api.CustomId) {
	index, err := id.GetInt("option")
	if err != nil {
		api.RespondEphemeral(ds, i, "That option is not part of this poll")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	pollId := id.Get("poll")
	err = m.manager.SubmitVoteIndex(ctx, pollId, api.MemberId(i), index)
	switch {
	case err == nil:
		api.RespondEphemeral(ds, i, "Vote cast! You can change it until the poll closes.")
	case errors.Is(err, polling.ErrPollNotFound):
		api.RespondEphemeral(ds, i, "This poll no longer exists")
	case errors.Is(err, polling.ErrInvalidOption):
		api.RespondEphemeral(ds, i, "That option is not part of this poll")
	default:
		logger.Err().Str("poll", pollId).Err(err).Msg("unable to record vote")
		api.RespondEphemeral(ds, i, "Vote failed to be cast...")
	}
}
