package telegram

import "testing"

func TestNormalize_MalformedJSON(t *testing.T) {
	if ev := Normalize([]byte("{not json")); ev != nil {
		t.Errorf("malformed body should normalize to nil, got %+v", ev)
	}
	if ev := Normalize(nil); ev != nil {
		t.Errorf("empty body should normalize to nil, got %+v", ev)
	}
}

func TestNormalize_NoMessage(t *testing.T) {
	if ev := Normalize([]byte(`{"update_id":1}`)); ev != nil {
		t.Errorf("update without message should normalize to nil, got %+v", ev)
	}
	if ev := Normalize([]byte(`{"edited_message":{"chat":{"id":1},"text":"x"}}`)); ev != nil {
		t.Errorf("non-message update should normalize to nil, got %+v", ev)
	}
}

func TestNormalize_TextMessage(t *testing.T) {
	body := []byte(`{"message":{"chat":{"id":100},"from":{"id":200},"text":"hello"}}`)
	ev := Normalize(body)
	if ev == nil {
		t.Fatal("expected event")
	}
	if ev.ChatID != 100 || ev.UserID != 200 {
		t.Errorf("ids = chat %d user %d", ev.ChatID, ev.UserID)
	}
	if ev.PromptText() != "hello" {
		t.Errorf("prompt text = %q", ev.PromptText())
	}
	if ev.HasPhoto() {
		t.Error("no photo expected")
	}
}

func TestNormalize_UserFallsBackToChat(t *testing.T) {
	body := []byte(`{"message":{"chat":{"id":100},"text":"hi"}}`)
	ev := Normalize(body)
	if ev == nil {
		t.Fatal("expected event")
	}
	if ev.UserID != 100 {
		t.Errorf("user id = %d, want chat id fallback 100", ev.UserID)
	}
}

func TestNormalize_TextPreferredOverCaption(t *testing.T) {
	body := []byte(`{"message":{"chat":{"id":1},"text":"the text","caption":"the caption"}}`)
	ev := Normalize(body)
	if ev.PromptText() != "the text" {
		t.Errorf("prompt text = %q, want message text", ev.PromptText())
	}

	body = []byte(`{"message":{"chat":{"id":1},"caption":"only caption"}}`)
	ev = Normalize(body)
	if ev.PromptText() != "only caption" {
		t.Errorf("prompt text = %q, want caption fallback", ev.PromptText())
	}
}

func TestNormalize_PhotoOrderPreserved(t *testing.T) {
	body := []byte(`{"message":{"chat":{"id":1},"photo":[{"file_id":"small"},{"file_id":"medium"},{"file_id":"large"}]}}`)
	ev := Normalize(body)
	if ev == nil {
		t.Fatal("expected event")
	}
	if len(ev.PhotoRefs) != 3 {
		t.Fatalf("got %d photo refs", len(ev.PhotoRefs))
	}
	largest, ok := ev.LargestPhoto()
	if !ok || largest.FileID != "large" {
		t.Errorf("largest photo = %+v, want trailing element", largest)
	}
	if ev.PromptText() != "" {
		t.Errorf("photo without caption should have empty prompt text, got %q", ev.PromptText())
	}
}
