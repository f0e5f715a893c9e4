package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"imagequest/internal/game"
	"imagequest/internal/questions"
)

// GameHandler serves question rounds and answer submissions. The server
// keeps no session: the client carries its question ID between calls, so
// every request names the character and round explicitly.
type GameHandler struct {
	engine *game.Engine
}

// NewGameHandler creates a new game handler
func NewGameHandler(engine *game.Engine) *GameHandler {
	return &GameHandler{engine: engine}
}

// GetQuestion returns the question and unlocked image for one round.
// Game-flow problems (unknown character, missing question set, out-of-range
// round) come back as HTTP 200 with an error payload, which is what the
// frontend consumes.
func (h *GameHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	qid, err := strconv.Atoi(r.PathValue("qid"))
	if err != nil {
		respondError(w, http.StatusOK, "Invalid question ID", err)
		return
	}

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	characterID, err := strconv.Atoi(r.FormValue("character_id"))
	if err != nil {
		respondError(w, http.StatusOK, "Invalid character ID", err)
		return
	}

	round, err := h.engine.GetQuestion(characterID, qid)
	if err != nil {
		respondError(w, http.StatusOK, gameErrorMessage(err), err)
		return
	}

	if round.Done {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"done":    true,
			"message": "You have completed the game!",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"question":       round.Question,
		"image":          round.Image,
		"character_name": round.CharacterName,
	})
}

// SubmitAnswer checks an answer and advances the game: wrong answers are
// terminal, correct ones unlock the next question and image, and winning
// returns the final reward image with a null next question.
func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	qid, err := strconv.Atoi(r.FormValue("question_id"))
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"correct": false,
			"message": "Invalid question ID",
		})
		return
	}
	characterID, err := strconv.Atoi(r.FormValue("character_id"))
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"correct": false,
			"message": "Invalid character ID",
		})
		return
	}

	result, err := h.engine.SubmitAnswer(characterID, qid, r.FormValue("answer"))
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"correct": false,
			"message": gameErrorMessage(err),
		})
		return
	}

	if !result.Correct {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"correct": false,
			"message": "Wrong answer! Game Over.",
		})
		return
	}

	if result.Won {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"correct":       true,
			"message":       "Congratulations! You won!",
			"next_question": nil,
			"next_image":    result.NextImage,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"correct":       true,
		"next_question": result.NextQuestion,
		"next_image":    result.NextImage,
	})
}

// gameErrorMessage maps engine errors to the messages the frontend shows.
func gameErrorMessage(err error) string {
	var oor *game.OutOfRangeError
	switch {
	case errors.Is(err, game.ErrCharacterNotFound):
		return "Character not found"
	case errors.Is(err, questions.ErrNotFound):
		return "No questions found for this character"
	case errors.As(err, &oor):
		return oor.Error()
	default:
		return "Something went wrong, please try again"
	}
}
