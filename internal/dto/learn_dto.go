package dto

// PublishLearnMessage is the payload carried on the in-process learning
// bus when a user accepts a solution.
type PublishLearnMessage struct {
	ResultId string `json:"result_id"`
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
	Topic    string `json:"topic"`
}
