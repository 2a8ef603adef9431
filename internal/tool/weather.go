package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultCWABaseURL   = "https://opendata.cwa.gov.tw/api/v1/rest/datastore"
	observationDataset  = "O-A0003-001"
	maxWeatherBodyBytes = 4 << 20
)

// Weather looks up live observations from a CWA (Central Weather
// Administration) open-data station by name.
type Weather struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewWeather creates the weather tool. baseURL is overridable for tests;
// empty means the public CWA endpoint.
func NewWeather(apiKey, baseURL string) *Weather {
	if baseURL == "" {
		baseURL = defaultCWABaseURL
	}
	return &Weather{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Name implements Tool.
func (*Weather) Name() string { return "get_weather" }

// Description implements Tool.
func (*Weather) Description() string { return "取得氣象站資訊。" }

// Parameters implements Tool.
func (*Weather) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"stationName": {
				"type": "string",
				"description": "氣象站名稱，例如「臺南」、「永康」。"
			}
		},
		"required": ["stationName"]
	}`)
}

type weatherArgs struct {
	StationName string `json:"stationName"`
}

// cwaResponse mirrors the subset of the CWA observation payload the tool
// reads. Numeric elements arrive as strings.
type cwaResponse struct {
	Records struct {
		Station []struct {
			StationName string `json:"StationName"`
			GeoInfo     struct {
				CountyName string `json:"CountyName"`
				TownName   string `json:"TownName"`
			} `json:"GeoInfo"`
			ObsTime struct {
				DateTime string `json:"DateTime"`
			} `json:"ObsTime"`
			WeatherElement struct {
				Weather          string `json:"Weather"`
				AirTemperature   string `json:"AirTemperature"`
				RelativeHumidity string `json:"RelativeHumidity"`
				WindSpeed        string `json:"WindSpeed"`
				UVIndex          string `json:"UVIndex"`
				Now              struct {
					Precipitation string `json:"Precipitation"`
				} `json:"Now"`
			} `json:"WeatherElement"`
		} `json:"Station"`
	} `json:"records"`
}

// observation is the success payload returned to the model.
type observation struct {
	StationName     string  `json:"stationName"`
	CountyName      string  `json:"countyName"`
	TownName        string  `json:"townName"`
	ObservationTime string  `json:"observationTime"`
	Weather         string  `json:"weather"`
	Temperature     float64 `json:"temperature"`
	Humidity        float64 `json:"humidity"` // 0-1 range
	WindSpeed       float64 `json:"windSpeed"`
	Precipitation   float64 `json:"precipitation"`
	UVIndex         int     `json:"uvIndex"`
}

// Execute implements Tool. Upstream failures and unknown stations become
// error payloads, never Go errors.
func (w *Weather) Execute(ctx context.Context, args json.RawMessage) Output {
	var parsed weatherArgs
	if err := json.Unmarshal(args, &parsed); err != nil || parsed.StationName == "" {
		return Errorf("缺少氣象站名稱。", "請提供氣象站名稱，例如：「臺南」、「善化」。")
	}

	q := url.Values{}
	q.Set("Authorization", w.apiKey)
	q.Set("StationName", parsed.StationName)
	reqURL := fmt.Sprintf("%s/%s?%s", w.baseURL, observationDataset, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Errorf("無法建立氣象資料請求。", "")
	}

	resp, err := w.http.Do(req)
	if err != nil {
		return Errorf("氣象資料服務目前無法連線。", "請稍後再試一次。")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWeatherBodyBytes))
	if err != nil || resp.StatusCode != http.StatusOK {
		return Errorf("氣象資料服務回應異常。", "請稍後再試一次。")
	}

	var data cwaResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return Errorf("氣象資料格式無法解析。", "請稍後再試一次。")
	}

	if len(data.Records.Station) == 0 {
		return Errorf(
			fmt.Sprintf("找不到氣象站「%s」的即時天氣資訊。", parsed.StationName),
			"請確認氣象站名稱是否正確，或嘗試其他鄰近的氣象站名稱，例如：「臺南」、「善化」。",
		)
	}

	st := data.Records.Station[0]
	return Output{Result: observation{
		StationName:     st.StationName,
		CountyName:      st.GeoInfo.CountyName,
		TownName:        st.GeoInfo.TownName,
		ObservationTime: st.ObsTime.DateTime,
		Weather:         st.WeatherElement.Weather,
		Temperature:     parseFloat(st.WeatherElement.AirTemperature),
		Humidity:        parseFloat(st.WeatherElement.RelativeHumidity) / 100,
		WindSpeed:       parseFloat(st.WeatherElement.WindSpeed),
		Precipitation:   parseFloat(st.WeatherElement.Now.Precipitation),
		UVIndex:         parseInt(st.WeatherElement.UVIndex),
	}}
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
