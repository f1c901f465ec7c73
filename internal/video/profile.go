package video

import (
	"fmt"
	"math/rand"
	"time"
)

// Device is the camera identity written into the output metadata.
type Device struct {
	Make     string
	Model    string
	Software string
}

// Devices are the phones a processed clip can claim to come from.
var Devices = []Device{
	{Make: "Apple", Model: "iPhone 13", Software: "17.5.1"},
	{Make: "Apple", Model: "iPhone 14 Pro", Software: "17.6.1"},
	{Make: "Apple", Model: "iPhone 15", Software: "18.1"},
	{Make: "Apple", Model: "iPhone 15 Pro Max", Software: "18.2"},
	{Make: "samsung", Model: "SM-S918B", Software: "S918BXXS5CXK1"},
	{Make: "samsung", Model: "SM-S921B", Software: "S921BXXU4AXK3"},
	{Make: "samsung", Model: "SM-A546E", Software: "A546EXXS6BXJ1"},
}

// City anchors the randomized GPS position.
type City struct {
	Name string
	Lat  float64
	Lon  float64
}

// Cities are the ten Brazilian cities used for GPS randomization.
var Cities = []City{
	{Name: "São Paulo", Lat: -23.5505, Lon: -46.6333},
	{Name: "Rio de Janeiro", Lat: -22.9068, Lon: -43.1729},
	{Name: "Belo Horizonte", Lat: -19.9167, Lon: -43.9345},
	{Name: "Brasília", Lat: -15.7939, Lon: -47.8828},
	{Name: "Salvador", Lat: -12.9777, Lon: -38.5016},
	{Name: "Fortaleza", Lat: -3.7319, Lon: -38.5267},
	{Name: "Curitiba", Lat: -25.4284, Lon: -49.2733},
	{Name: "Recife", Lat: -8.0476, Lon: -34.8770},
	{Name: "Porto Alegre", Lat: -30.0346, Lon: -51.2177},
	{Name: "Manaus", Lat: -3.1190, Lon: -60.0217},
}

// Profile is one randomized camouflage: identity, position and the small
// colour/sharpness shifts that change the encoded hash.
type Profile struct {
	Device     Device
	City       City
	Lat        float64
	Lon        float64
	Gamma      float64
	Saturation float64
	Sharpen    float64
	Created    time.Time
}

// maxJitter keeps the position within a few kilometres of the city centre.
const maxJitter = 0.05

// RandomProfile draws a profile from r. now anchors the creation time, which is
// moved back by up to three days.
func RandomProfile(r *rand.Rand, now time.Time) Profile {
	city := Cities[r.Intn(len(Cities))]
	return Profile{
		Device:     Devices[r.Intn(len(Devices))],
		City:       city,
		Lat:        city.Lat + (r.Float64()*2-1)*maxJitter,
		Lon:        city.Lon + (r.Float64()*2-1)*maxJitter,
		Gamma:      0.97 + r.Float64()*0.06,
		Saturation: 0.95 + r.Float64()*0.10,
		Sharpen:    0.3 + r.Float64()*0.5,
		Created:    now.Add(-time.Duration(r.Int63n(int64(72 * time.Hour)))).UTC().Truncate(time.Second),
	}
}

// ISO6709 is the location string QuickTime and Android both read.
func (p Profile) ISO6709() string {
	return fmt.Sprintf("%+08.4f%+09.4f/", p.Lat, p.Lon)
}

// Filters is the ffmpeg video filter chain.
func (p Profile) Filters() string {
	return fmt.Sprintf("eq=gamma=%.3f:saturation=%.3f,unsharp=5:5:%.2f:5:5:0.0,noise=alls=2:allf=t",
		p.Gamma, p.Saturation, p.Sharpen)
}

// Args builds the ffmpeg argument list that re-encodes in into out.
func (p Profile) Args(in, out string) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", in,
		"-map_metadata", "-1",
		"-vf", p.Filters(),
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-c:a", "aac", "-b:a", "128k", "-ar", "44100",
		"-metadata", "make=" + p.Device.Make,
		"-metadata", "model=" + p.Device.Model,
		"-metadata", "software=" + p.Device.Software,
		"-metadata", "com.apple.quicktime.make=" + p.Device.Make,
		"-metadata", "com.apple.quicktime.model=" + p.Device.Model,
		"-metadata", "location=" + p.ISO6709(),
		"-metadata", "com.apple.quicktime.location.ISO6709=" + p.ISO6709(),
		"-metadata", "creation_time=" + p.Created.Format(time.RFC3339),
		"-movflags", "+use_metadata_tags+faststart",
		out,
	}
}
