package data

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindUserByUsername(t *testing.T) {
	db := setUpDatabase(t)

	testUser := &User{Username: "alice", TotalScore: 50}
	tests := []struct {
		name     string
		seedData func()
		want     *User
	}{
		{
			name:     "user does not exist",
			seedData: func() {},
			want:     nil,
		},
		{
			name: "user exists",
			seedData: func() {
				if err := CreateUser(db, testUser); err != nil {
					t.Fatalf("error creating test user: %s", err)
				}
			},
			want: testUser,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.seedData()

			user, err := FindUserByUsername(db, "alice")
			if err != nil {
				t.Fatalf("FindUserByUsername() returned error: %v", err)
			}
			if diff := cmp.Diff(tt.want, user); diff != "" {
				t.Errorf("user did not match expected; diff:\n%s", diff)
			}
		})
	}
}

func TestIncrementUserScore_CreatesMissingUser(t *testing.T) {
	db := setUpDatabase(t)

	if err := incrementUserScore(db, "bob", 25); err != nil {
		t.Fatalf("incrementUserScore() returned error: %v", err)
	}

	user, err := FindUserByUsername(db, "bob")
	if err != nil {
		t.Fatalf("FindUserByUsername() returned error: %v", err)
	}
	if user == nil || user.TotalScore != 25 {
		t.Fatalf("expected bob with total score 25, got: %+v", user)
	}

	if err := incrementUserScore(db, "bob", 5); err != nil {
		t.Fatalf("incrementUserScore() returned error: %v", err)
	}
	user, _ = FindUserByUsername(db, "bob")
	if user.TotalScore != 30 {
		t.Errorf("TotalScore want = 30, got = %d", user.TotalScore)
	}
}
