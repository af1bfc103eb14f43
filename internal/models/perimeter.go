package models

// Perimeter 看护人为老人配置的家庭地理围栏（圆心 + 半径）
type Perimeter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  int     `json:"homeRadius"`
}

// 半径控件允许的范围（公里）
const (
	MinRadiusKm = 1
	MaxRadiusKm = 15
)

// ClampRadius 把滑块值收敛到 [MinRadiusKm, MaxRadiusKm]
func ClampRadius(km int) int {
	if km < MinRadiusKm {
		return MinRadiusKm
	}
	if km > MaxRadiusKm {
		return MaxRadiusKm
	}
	return km
}

// Elder 被看护的老人（关系管理接口返回）
type Elder struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Caregiver 看护人
type Caregiver struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ArduinoDevice 可配对的传感器硬件
type ArduinoDevice struct {
	MacAddress string  `json:"macAddress"`
	Distance   float64 `json:"distance"`
}

// Address 反向地理编码结果
type Address struct {
	Road    string `json:"road"`
	City    string `json:"city"`
	Country string `json:"country"`
}
