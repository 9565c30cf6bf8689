package dataset

import "strings"

// SampleCSV は価格・面積・寝室数などを持つ 15 件の住宅価格サンプルデータ
const SampleCSV = `price,area_sqft,bedrooms,bathrooms,location_score,age_years
450000,1500,3,2,8,10
380000,1200,2,1,7,15
520000,1800,4,2,9,5
290000,900,1,1,6,30
650000,2200,4,3,9,2
410000,1400,3,2,7,12
720000,2500,5,3,10,1
330000,1000,2,1,6,20
490000,1650,3,2,8,8
580000,2000,4,2.5,9,4
350000,1100,2,1.5,5,25
900000,3000,5,4,10,0
250000,800,1,1,4,40
475000,1550,3,2,8,7
610000,2100,4,3,9,3`

// Sample はサンプルデータを読み込んだ新しい Dataset を返す
func Sample() Dataset {
	ds, err := ReadCSV(strings.NewReader(SampleCSV))
	if err != nil {
		panic("dataset: invalid sample data: " + err.Error())
	}
	return ds
}
