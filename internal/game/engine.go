package game

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"imagequest/internal/assets"
	"imagequest/internal/models"
	"imagequest/internal/questions"
	"imagequest/internal/store"
)

// ErrCharacterNotFound is returned when a game call names an unknown character.
var ErrCharacterNotFound = errors.New("character not found")

// OutOfRangeError is returned when a client-supplied question ID does not
// index the character's question set. The server keeps no session state, so
// every call must bounds-check the ID the client sends.
type OutOfRangeError struct {
	QuestionID int
	Count      int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("question %d is out of range (set has %d questions)", e.QuestionID, e.Count)
}

// Round is the content served for one question round.
type Round struct {
	Done          bool
	Question      *models.Question
	Image         string
	CharacterName string
}

// AnswerResult is the outcome of one answer submission. An incorrect answer
// is terminal; a correct one either advances (NextQuestion set) or wins the
// game (NextQuestion nil, NextImage holding the final reward).
type AnswerResult struct {
	Correct      bool
	Won          bool
	NextQuestion *models.Question
	NextImage    string
}

// Engine decides question progression and image unlocks. It is a pure
// decision layer: all state lives in the (character, question ID, answer)
// triple the client supplies, so concurrent games never interact.
type Engine struct {
	store *store.CharacterStore
}

// NewEngine creates a game engine over the character store.
func NewEngine(s *store.CharacterStore) *Engine {
	return &Engine{store: s}
}

// GetQuestion returns the content for question qid: the question itself and
// the image unlocked so far (round 1 shows the reserved original). A qid
// past the end of the set is the completed-game signal, not an error.
func (e *Engine) GetQuestion(characterID, qid int) (*Round, error) {
	char, qs, err := e.resolve(characterID)
	if err != nil {
		return nil, err
	}

	if qid < 1 {
		return nil, &OutOfRangeError{QuestionID: qid, Count: len(qs)}
	}
	if qid > len(qs) {
		return &Round{Done: true, CharacterName: char.Name}, nil
	}

	files, err := assets.ListImages(char.Folder)
	if err != nil {
		return nil, err
	}

	return &Round{
		Question:      &qs[qid-1],
		Image:         e.imageForIndex(char.Folder, files, qid-1),
		CharacterName: char.Name,
	}, nil
}

// SubmitAnswer validates the submitted answer for question qid and advances
// the game. Correctness is case-insensitive, whitespace-trimmed equality.
func (e *Engine) SubmitAnswer(characterID, qid int, answer string) (*AnswerResult, error) {
	char, qs, err := e.resolve(characterID)
	if err != nil {
		return nil, err
	}

	if qid < 1 || qid > len(qs) {
		return nil, &OutOfRangeError{QuestionID: qid, Count: len(qs)}
	}

	if !answersMatch(answer, qs[qid-1].Answer) {
		return &AnswerResult{Correct: false}, nil
	}

	files, err := assets.ListImages(char.Folder)
	if err != nil {
		return nil, err
	}

	next := qid + 1
	if next > playableRounds(len(qs), len(files)) {
		return &AnswerResult{
			Correct:   true,
			Won:       true,
			NextImage: e.rewardImage(char.Folder, files),
		}, nil
	}

	return &AnswerResult{
		Correct:      true,
		NextQuestion: &qs[next-1],
		NextImage:    e.imageForIndex(char.Folder, files, next-1),
	}, nil
}

// playableRounds is the single win-condition rule shared by every path:
// with N questions and M enumerated files, min(N, M-1) rounds can be played.
// The lexicographically last file is reserved as the final reward, which is
// what the M-1 accounts for.
func playableRounds(questionCount, fileCount int) int {
	rounds := fileCount - 1
	if questionCount < rounds {
		rounds = questionCount
	}
	if rounds < 0 {
		rounds = 0
	}
	return rounds
}

// answersMatch compares answers ignoring case and surrounding whitespace.
func answersMatch(submitted, recorded string) bool {
	return strings.ToLower(strings.TrimSpace(submitted)) == strings.ToLower(strings.TrimSpace(recorded))
}

func (e *Engine) resolve(characterID int) (*models.Character, []models.Question, error) {
	char, err := e.store.Get(characterID)
	if err != nil {
		return nil, nil, err
	}
	if char == nil {
		return nil, nil, ErrCharacterNotFound
	}

	qs, err := questions.Load(char.Folder)
	if err != nil {
		return nil, nil, err
	}
	return char, qs, nil
}

// imageForIndex resolves the image for a 0-based unlock index: the manifest
// written at generation time wins, lexicographic position is the fallback,
// and a missing image degrades to an empty string rather than an error.
func (e *Engine) imageForIndex(folder string, files []string, index int) string {
	manifest, err := assets.LoadManifest(folder)
	if err != nil {
		log.Printf("Warning: ignoring unreadable manifest in %s: %v", folder, err)
	}

	name := ""
	if manifest != nil {
		name = manifest[index]
	}
	if name == "" && index >= 0 && index < len(files) {
		name = files[index]
	}
	if name == "" {
		return ""
	}
	return e.encode(filepath.Join(folder, name))
}

// rewardImage is the final unlock: always the lexicographically last file.
func (e *Engine) rewardImage(folder string, files []string) string {
	if len(files) == 0 {
		return ""
	}
	return e.encode(filepath.Join(folder, files[len(files)-1]))
}

func (e *Engine) encode(path string) string {
	uri, err := assets.DataURI(path)
	if err != nil {
		log.Printf("Warning: failed to encode image %s: %v", path, err)
		return ""
	}
	return uri
}
