package database

import (
	"testing"
)

func TestInsertUser_ReRegistrationIsNoop(t *testing.T) {
	m := newTestManager(t)
	owls := registerUser(t, m, 100, "Owls")
	foxes, err := m.InsertTeam("Foxes")
	if err != nil {
		t.Fatalf("InsertTeam returned error: %v", err)
	}

	if err := m.UpdateQuestionPointer(100, 3); err != nil {
		t.Fatalf("UpdateQuestionPointer returned error: %v", err)
	}
	if err := m.InsertUser(100, foxes); err != nil {
		t.Fatalf("InsertUser returned error: %v", err)
	}

	user, err := m.GetUser(100)
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user to exist")
	}
	if user.TeamID != owls {
		t.Fatalf("expected team %d to be kept, got %d", owls, user.TeamID)
	}
	if user.QuestionID != 3 {
		t.Fatalf("expected pointer 3 to be kept, got %d", user.QuestionID)
	}
}

func TestGetUser_Unknown(t *testing.T) {
	m := newTestManager(t)

	user, err := m.GetUser(404)
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil, got %+v", user)
	}
}

func TestInsertUser_UnknownTeamFails(t *testing.T) {
	m := newTestManager(t)

	if err := m.InsertUser(100, 999); err == nil {
		t.Fatal("expected foreign key error for unknown team")
	}
}
