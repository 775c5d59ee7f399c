package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analyze", r.URL.Path)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "alice", payload["username"])
		require.Equal(t, float64(7), payload["mood"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":        true,
			"record_id":      42,
			"score":          6.5,
			"emotion_status": "보통",
			"text_emotion":   "Neutral",
			"challenges": []map[string]string{
				{"title": "Walk", "type": "activity", "url": "#"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	res, err := c.Analyze(context.Background(), "alice", AnalysisInput{Mood: 7, Sleep: 6, Activity: 4, FeelingText: "ok"})
	require.NoError(t, err)
	require.Equal(t, int64(42), res.RecordID)
	require.Equal(t, 6.5, res.Score)
	require.Equal(t, "보통", res.EmotionStatus)
	require.Len(t, res.Challenges, 1)
	require.False(t, res.Challenges[0].HasLink())
}

func TestAnalyzeFailureCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "분석 처리 중 오류가 발생했습니다."})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Analyze(context.Background(), "alice", AnalysisInput{Mood: 5, Sleep: 6, Activity: 5})
	var se *ServerError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "분석 처리 중 오류가 발생했습니다.", se.Message)
	require.Equal(t, http.StatusInternalServerError, se.Status)
}

func TestLoginStatusContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["password"] == "pw1" {
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "로그인 성공!"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "아이디 또는 비밀번호가 일치하지 않습니다."})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	require.NoError(t, c.Login(context.Background(), "alice", "pw1"))

	err := c.Login(context.Background(), "alice", "wrong")
	var se *ServerError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "아이디 또는 비밀번호가 일치하지 않습니다.", se.Message)
}

func TestRecordsQueryAndDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/get_data", r.URL.Path)
		require.Equal(t, "alice", r.URL.Query().Get("username"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 1, "date": "2025-08-01 10:30", "score": 6.5, "status": "보통", "text": "ok",
					"recommended_challenges_json": `[{"title":"Walk","type":"activity","url":"#"}]`,
					"feedback_given_json":         `{"Walk":1}`},
				{"id": 2, "date": "2025-08-02 09:00", "score": 4.0, "status": "나쁨", "text": ""},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	records, err := c.Records(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, int64(1), records[0].ID)
	require.Equal(t, map[string]int{"Walk": 1}, records[0].Feedback())
	require.Empty(t, records[1].Challenges())
}

func TestSubmitFeedback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/feedback", r.URL.Path)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, float64(42), payload["record_id"])
		require.Equal(t, "Walk", payload["challenge_title"])
		require.Equal(t, float64(1), payload["rating"])
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "피드백이 저장되었습니다."})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	require.NoError(t, c.SubmitFeedback(context.Background(), "alice", 42, "Walk", 1))
}

func TestSubmitFeedbackRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "해당 기록을 찾을 수 없습니다."})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.SubmitFeedback(context.Background(), "alice", 99, "Walk", -1)
	var se *ServerError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "해당 기록을 찾을 수 없습니다.", se.Message)
}

func TestQuestionnaireRoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chatbot/start", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"questions": []map[string]any{
				{"id": 1, "text": "q1", "options": []map[string]any{{"text": "전혀 없음 (0점)", "score": 0}, {"text": "거의 매일 (3점)", "score": 3}}},
			},
		})
	})
	mux.HandleFunc("/chatbot/result", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Answers []int `json:"answers"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, []int{3}, payload.Answers)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_score":   3,
			"message":       "총점 3점. 정상 범위이며 우울 증상이 거의 없습니다.",
			"hospital_info": nil,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, nil)
	qs, err := c.StartQuestionnaire(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, 1)
	require.Len(t, qs[0].Options, 2)

	res, err := c.SubmitQuestionnaire(context.Background(), []int{3})
	require.NoError(t, err)
	require.Equal(t, 3, res.TotalScore)
	require.Empty(t, res.HospitalInfo)
}

func TestRegisterConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "이미 존재하는 아이디입니다."})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Register(context.Background(), RegisterForm{Username: "alice", Password: "pw"})
	var se *ServerError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "이미 존재하는 아이디입니다.", se.Message)
}
