package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dogpound/glizzy/discord"
	"github.com/dogpound/glizzy/ledger"
	"github.com/dogpound/glizzy/protest"
)

const secondProtestPrefix = "second_protest_"

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	var in discord.Interaction
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid interaction payload")
		return
	}

	switch in.Type {
	case discord.InteractionPing:
		s.writeJSON(w, http.StatusOK, discord.Pong())

	case discord.InteractionApplicationCommand:
		s.handleCommand(w, r, in)

	case discord.InteractionMessageComponent:
		s.handleComponent(w, r, in)

	default:
		s.logger.Printf("unknown interaction type %d", in.Type)
		s.writeError(w, http.StatusBadRequest, "unknown interaction type")
	}
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request, in discord.Interaction) {
	switch in.Data.Name {
	case "hotdog":
		s.handleHotDog(w, r, in)
	case "protest":
		s.handleProtest(w, r, in)
	case "leaderboard":
		s.handleLeaderboard(w, r)
	case "stats":
		s.handleStatsCommand(w, r)
	default:
		s.logger.Printf("unknown command: %s", in.Data.Name)
		s.writeError(w, http.StatusBadRequest, "unknown command")
	}
}

func (s *Server) handleHotDog(w http.ResponseWriter, r *http.Request, in discord.Interaction) {
	user := in.Invoker()
	name := user.DisplayName()

	if len(in.Data.Options) == 0 {
		s.writeError(w, http.StatusBadRequest, "missing amount option")
		return
	}
	amount, err := in.Data.Options[0].Int()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad amount option")
		return
	}

	total, err := s.ledger.RecordAddition(r.Context(), user.ID, name, amount)
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount) && amount > ledger.MaxAmount:
		s.writeJSON(w, http.StatusOK, discord.TextMessage(
			fmt.Sprintf("%d hot dogs? I don't believe you 🚬", amount)))
	case errors.Is(err, ledger.ErrInvalidAmount):
		s.writeJSON(w, http.StatusOK, discord.TextMessage(
			fmt.Sprintf("Please enter a positive integer amount of hot dogs, %s. 🌭", name)))
	case err != nil:
		s.logger.Printf("record addition: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to record hot dogs")
	default:
		s.writeJSON(w, http.StatusOK, discord.TextMessage(
			fmt.Sprintf("You now have %d hot dogs, %s! 🌭", total, name)))
	}
}

func (s *Server) handleProtest(w http.ResponseWriter, r *http.Request, in discord.Interaction) {
	protestor := in.Invoker()

	if len(in.Data.Options) < 2 {
		s.writeError(w, http.StatusBadRequest, "missing protest options")
		return
	}
	targetID, err := in.Data.Options[0].String()
	if err != nil || !discord.ValidUserID(targetID) {
		s.writeJSON(w, http.StatusOK, discord.TextMessage("Please pick a real user to protest. 🌭"))
		return
	}
	amount, err := in.Data.Options[1].Int()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad amount option")
		return
	}

	err = s.protests.Propose(r.Context(), in.ID, protestor.ID, targetID, amount)
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		s.writeJSON(w, http.StatusOK, discord.TextMessage(
			"Please enter a positive integer amount of hot dogs to protest. 🌭"))
	case errors.Is(err, ledger.ErrWouldGoNegative):
		total, terr := s.ledger.Total(r.Context(), targetID)
		if terr != nil {
			s.logger.Printf("query total: %v", terr)
			s.writeError(w, http.StatusInternalServerError, "failed to check total")
			return
		}
		s.writeJSON(w, http.StatusOK, discord.TextMessage(fmt.Sprintf(
			"Cannot protest %d hot dogs from <@%s> (current total: %d). This would result in a negative count.",
			amount, targetID, total)))
	case err != nil:
		s.logger.Printf("propose protest: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to record protest")
	default:
		s.writeJSON(w, http.StatusOK, discord.TextWithButton(
			fmt.Sprintf("<@%s> protests <@%s> for %d hot dogs. Second to confirm.",
				protestor.ID, targetID, amount),
			secondProtestPrefix+in.ID, "Second", discord.ButtonDanger))
	}
}

func (s *Server) handleComponent(w http.ResponseWriter, r *http.Request, in discord.Interaction) {
	if !strings.HasPrefix(in.Data.CustomID, secondProtestPrefix) {
		s.writeError(w, http.StatusBadRequest, "unknown component")
		return
	}
	protestID := strings.TrimPrefix(in.Data.CustomID, secondProtestPrefix)
	seconder := in.Invoker()

	res, err := s.protests.Confirm(r.Context(), protestID, seconder.ID)
	switch {
	case errors.Is(err, protest.ErrNoSuchProtest):
		s.writeJSON(w, http.StatusOK, discord.EphemeralText("This protest is no longer active."))
	case errors.Is(err, protest.ErrSelfConfirmation):
		s.writeJSON(w, http.StatusOK, discord.EphemeralText("You cannot second your own protest."))
	case errors.Is(err, ledger.ErrWouldGoNegative):
		s.writeJSON(w, http.StatusOK, discord.EphemeralText(
			"The target's total has changed; seconding now would take it negative."))
	case err != nil:
		s.logger.Printf("confirm protest: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to resolve protest")
	default:
		s.writeJSON(w, http.StatusOK, discord.EphemeralText(fmt.Sprintf(
			"You seconded the protest — deducted %d from <@%s>.", res.Amount, res.TargetID)))
		s.editResolvedMessage(in, seconder.ID, res)
	}
}

// editResolvedMessage rewrites the original protest message after a second,
// so the channel sees the outcome. Best effort: the interaction has already
// been answered.
func (s *Server) editResolvedMessage(in discord.Interaction, seconderID string, res protest.Resolution) {
	if s.client == nil || in.Message == nil {
		return
	}
	token, messageID := in.Token, in.Message.ID
	content := fmt.Sprintf("Protest resolved: <@%s> seconded; <@%s> now has %d hot dogs.",
		seconderID, res.TargetID, res.NewTotal)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.client.EditInteractionMessage(ctx, token, messageID, discord.TextEdit(content)); err != nil {
			s.logger.Printf("edit protest message: %v", err)
		}
	}()
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.Leaderboard(r.Context())
	if err != nil {
		s.logger.Printf("leaderboard: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to fetch leaderboard")
		return
	}
	total, err := s.stats.TotalConsumed(r.Context())
	if err != nil {
		s.logger.Printf("total consumed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to fetch leaderboard")
		return
	}

	var b strings.Builder
	b.WriteString("🌭 **Hot Dog Leaderboard** 🌭\n\n")
	if len(rows) == 0 {
		b.WriteString("No hot dog counts yet!")
	} else {
		for i, row := range rows {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%d. <@%s> - %d hot dogs", row.Rank, row.UserID, row.Total)
		}
	}
	fmt.Fprintf(&b, "\n\nTotal glizzies guzzled: %d", total)

	s.writeJSON(w, http.StatusOK, discord.TextMessage(b.String()))
}

func (s *Server) handleStatsCommand(w http.ResponseWriter, r *http.Request) {
	bundle, err := s.stats.ComputeBundle(r.Context())
	if err != nil {
		s.logger.Printf("stats bundle: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	var b strings.Builder
	b.WriteString("🌭 **Hot Dog Stats** 🌭\n\n")
	fmt.Fprintf(&b, "Total glizzies guzzled: %d\n", bundle.TotalDogsConsumed)
	fmt.Fprintf(&b, "Dogs per day: %s\n", bundle.DogsPerDay)
	fmt.Fprintf(&b, "Dogs per month: %s\n", bundle.DogsPerMonth)

	streak := bundle.LongestDailyStreak
	if streak.Days > 0 {
		mentions := make([]string, len(streak.UserIDs))
		for i, uid := range streak.UserIDs {
			mentions[i] = "<@" + uid + ">"
		}
		fmt.Fprintf(&b, "Longest daily streak: %d days (%s)\n", streak.Days, strings.Join(mentions, ", "))
	} else {
		b.WriteString("Longest daily streak: none\n")
	}

	largest := bundle.LargestSingleSessionSubmission
	if largest.Timestamp != nil {
		fmt.Fprintf(&b, "Largest single sitting: %d by <@%s>\n", largest.Amount, largest.UserID)
	} else {
		b.WriteString("Largest single sitting: none\n")
	}
	fmt.Fprintf(&b, "Average per entry: %s", bundle.AverageAmountPerDbRow)

	s.writeJSON(w, http.StatusOK, discord.TextMessage(b.String()))
}
