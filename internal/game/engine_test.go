package game

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"imagequest/internal/assets"
	"imagequest/internal/models"
	"imagequest/internal/questions"
	"imagequest/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.CharacterStore, string) {
	t.Helper()
	dir := t.TempDir()
	s := store.NewCharacterStore(filepath.Join(dir, "characters.json"))
	return NewEngine(s), s, dir
}

// addCharacter creates a character folder with a question set and image
// files, and registers it in the store.
func addCharacter(t *testing.T, s *store.CharacterStore, dir string, qs []models.Question, images []string) models.Character {
	t.Helper()

	folder := filepath.Join(dir, "1_test")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("failed to create folder: %v", err)
	}

	if qs != nil {
		if err := questions.Save(folder, qs); err != nil {
			t.Fatalf("failed to save questions: %v", err)
		}
	}
	for _, name := range images {
		if err := os.WriteFile(filepath.Join(folder, name), []byte("img:"+name), 0o644); err != nil {
			t.Fatalf("failed to write image: %v", err)
		}
	}

	char := models.Character{
		ID:            1,
		Name:          "Test",
		OriginalImage: filepath.Join(folder, "0.png"),
		Folder:        folder,
		Owner:         models.AnonymousOwner,
		Status:        models.StatusPublic,
	}
	if err := s.Append(char); err != nil {
		t.Fatalf("failed to append character: %v", err)
	}
	return char
}

func dataURIFor(name string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("img:"+name))
}

func twoQuestions() []models.Question {
	return []models.Question{
		{Question: "Capital of France?", Options: []string{"Paris", "Rome", "Berlin", "Oslo"}, Answer: "Paris"},
		{Question: "Capital of Italy?", Options: []string{"Paris", "Rome", "Berlin", "Oslo"}, Answer: "Rome"},
	}
}

func TestSubmitAnswerAdvances(t *testing.T) {
	engine, s, dir := newTestEngine(t)
	addCharacter(t, s, dir, twoQuestions(), []string{"0.png", "1.png", "2.png"})

	result, err := engine.SubmitAnswer(1, 1, "Paris")
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if !result.Correct || result.Won {
		t.Fatalf("expected correct continue, got %+v", result)
	}
	if result.NextQuestion == nil || result.NextQuestion.ID != 2 {
		t.Fatalf("expected next question 2, got %+v", result.NextQuestion)
	}
	if result.NextImage != dataURIFor("1.png") {
		t.Errorf("expected next image to be 1.png, got %q", result.NextImage)
	}
}

func TestSubmitAnswerWrongIsTerminalAndPure(t *testing.T) {
	engine, s, dir := newTestEngine(t)
	addCharacter(t, s, dir, twoQuestions(), []string{"0.png", "1.png", "2.png"})

	for i := 0; i < 2; i++ {
		result, err := engine.SubmitAnswer(1, 1, "Rome")
		if err != nil {
			t.Fatalf("SubmitAnswer() error = %v", err)
		}
		if result.Correct {
			t.Fatalf("attempt %d: expected incorrect result", i+1)
		}
		if result.NextQuestion != nil || result.NextImage != "" {
			t.Fatalf("attempt %d: incorrect answer must not progress, got %+v", i+1, result)
		}
	}
}

func TestSubmitAnswerWinBoundary(t *testing.T) {
	// One question, original plus one generated image: answering question 1
	// wins and the reward is the lexicographically last file.
	engine, s, dir := newTestEngine(t)
	addCharacter(t, s, dir, twoQuestions()[:1], []string{"0.png", "1.png"})

	result, err := engine.SubmitAnswer(1, 1, "paris")
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if !result.Correct || !result.Won {
		t.Fatalf("expected win, got %+v", result)
	}
	if result.NextQuestion != nil {
		t.Errorf("expected nil next question on win")
	}
	if result.NextImage != dataURIFor("1.png") {
		t.Errorf("expected reward image 1.png, got %q", result.NextImage)
	}
}

func TestSubmitAnswerNormalizesCaseAndWhitespace(t *testing.T) {
	engine, s, dir := newTestEngine(t)
	addCharacter(t, s, dir, twoQuestions(), []string{"0.png", "1.png", "2.png"})

	tests := []struct {
		name    string
		answer  string
		correct bool
	}{
		{"exact", "Paris", true},
		{"lowercase padded", "  paris  ", true},
		{"uppercase", "PARIS", true},
		{"different answer", "Rome", false},
		{"substring", "Par", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.SubmitAnswer(1, 1, tt.answer)
			if err != nil {
				t.Fatalf("SubmitAnswer() error = %v", err)
			}
			if result.Correct != tt.correct {
				t.Errorf("answer %q: correct = %v, want %v", tt.answer, result.Correct, tt.correct)
			}
		})
	}
}

func TestSubmitAnswerUnknownCharacter(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.SubmitAnswer(42, 1, "Paris")
	if !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
}

func TestSubmitAnswerMissingQuestionSet(t *testing.T) {
	engine, s, dir := newTestEngine(t)
	addCharacter(t, s, dir, nil, []string{"0.png", "1.png"})

	_, err := engine.SubmitAnswer(1, 1, "Paris")
	if !errors.Is(err, questions.ErrNotFound) {
		t.Fatalf("expected questions.ErrNotFound, got %v", err)
	}
}

func TestSubmitAnswerOutOfRange(t *testing.T) {
	engine, s, dir := newTestEngine(t)
	addCharacter(t, s, dir, twoQuestions(), []string{"0.png", "1.png", "2.png"})

	for _, qid := range []int{0, -3, 5} {
		_, err := engine.SubmitAnswer(1, qid, "Paris")
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("qid %d: expected OutOfRangeError, got %v", qid, err)
		}
		if oor.QuestionID != qid || oor.Count != 2 {
			t.Errorf("qid %d: unexpected error detail %+v", qid, oor)
		}
	}
}

func TestGetQuestionShowsUnlockedImage(t *testing.T) {
	engine, s, dir := newTestEngine(t)
	addCharacter(t, s, dir, twoQuestions(), []string{"0.png", "1.png", "2.png"})

	round, err := engine.GetQuestion(1, 1)
	if err != nil {
		t.Fatalf("GetQuestion() error = %v", err)
	}
	if round.Done {
		t.Fatalf("unexpected done signal")
	}
	if round.Question == nil || round.Question.ID != 1 {
		t.Fatalf("expected question 1, got %+v", round.Question)
	}
	// Round 1 shows the reserved original.
	if round.Image != dataURIFor("0.png") {
		t.Errorf("expected image 0.png, got %q", round.Image)
	}
	if round.CharacterName != "Test" {
		t.Errorf("expected character name, got %q", round.CharacterName)
	}
}

func TestGetQuestionPastEndIsDone(t *testing.T) {
	engine, s, dir := newTestEngine(t)
	addCharacter(t, s, dir, twoQuestions(), []string{"0.png", "1.png", "2.png"})

	round, err := engine.GetQuestion(1, 3)
	if err != nil {
		t.Fatalf("GetQuestion() error = %v", err)
	}
	if !round.Done {
		t.Fatalf("expected done signal past the last question")
	}
}

func TestGetQuestionMissingImageDegrades(t *testing.T) {
	engine, s, dir := newTestEngine(t)
	addCharacter(t, s, dir, twoQuestions(), nil)

	round, err := engine.GetQuestion(1, 1)
	if err != nil {
		t.Fatalf("GetQuestion() error = %v", err)
	}
	if round.Image != "" {
		t.Errorf("expected empty image when folder has no files, got %q", round.Image)
	}
}

func TestManifestOverridesLexicographicOrder(t *testing.T) {
	engine, s, dir := newTestEngine(t)
	char := addCharacter(t, s, dir, twoQuestions(), []string{"0.png", "1.png", "2.png"})

	if err := assets.RecordManifestEntry(char.Folder, 0, "2.png"); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	round, err := engine.GetQuestion(1, 1)
	if err != nil {
		t.Fatalf("GetQuestion() error = %v", err)
	}
	if round.Image != dataURIFor("2.png") {
		t.Errorf("expected manifest-mapped image 2.png, got %q", round.Image)
	}
}

func TestPlayableRounds(t *testing.T) {
	tests := []struct {
		name      string
		questions int
		files     int
		want      int
	}{
		{"images limit play", 5, 3, 2},
		{"questions limit play", 2, 10, 2},
		{"exact fit", 3, 4, 3},
		{"no files", 3, 0, 0},
		{"only original", 3, 1, 0},
		{"no questions", 0, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := playableRounds(tt.questions, tt.files); got != tt.want {
				t.Errorf("playableRounds(%d, %d) = %d, want %d", tt.questions, tt.files, got, tt.want)
			}
		})
	}
}
