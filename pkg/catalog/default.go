package catalog

import "strings"

const restaurants = "음식점업"

// Default returns the built-in restaurant catalog with its synonym table.
func Default() *Catalog {
	c, err := New("restaurants-kr", "1", defaultRecords(), defaultSynonyms())
	if err != nil {
		// The seed is static; a failure here is a programming error.
		panic("catalog: invalid built-in seed: " + err.Error())
	}
	return c
}

func seed(code, medium, small, keywords string) Record {
	r := Record{
		Code:           code,
		LargeCategory:  restaurants,
		MediumCategory: medium,
		SmallCategory:  small,
	}
	if keywords != "" {
		r.Keywords = strings.Split(keywords, ",")
	}
	return r
}

func defaultRecords() []Record {
	return []Record{
		seed("I21201", "비알코올 음료점업", "카페", "커피,음료,디저트,다방"),
		seed("I21010", "기타 간이 음식점업", "분식", "떡볶이,김밥,라면,만두"),
		seed("I21006", "기타 간이 음식점업", "치킨", "후라이드,양념치킨,닭,닭강정"),
		seed("I21007", "기타 간이 음식점업", "피자", "피자전문점"),
		seed("I20101", "한식 음식점업", "백반/한정식", "밥집,정식,한식"),
		seed("I20102", "한식 음식점업", "국/탕/찌개류", "해장국,감자탕,부대찌개,찌개,국,탕"),
		seed("I20103", "한식 음식점업", "국밥", "돼지국밥,소머리국밥"),
		seed("I20104", "한식 음식점업", "고기/구이", "삼겹살,돼지갈비,소고기,구이,숯불,고깃집"),
		seed("I20201", "중식 음식점업", "중국집", "중식,짜장면,짬뽕,탕수육"),
		seed("I20301", "일식 음식점업", "초밥/참치", "스시,사시미,참치,초밥"),
		seed("I20302", "일식 음식점업", "돈까스/우동", "가츠,돈가스,돈까스,우동,소바"),
		seed("I20401", "서양식 음식점업", "파스타/스테이크", "파스타,스테이크,이탈리안,레스토랑"),
		seed("I20501", "기타 외국식", "멕시칸", "타코,부리또,멕시코"),
		seed("I20502", "기타 외국식", "인도/네팔", "커리,난,탄두리,인도,네팔"),
		seed("I20503", "기타 외국식", "베트남", "쌀국수,분짜,반미,베트남"),
		seed("I20504", "기타 외국식", "태국", "팟타이,똠얌,태국"),
		seed("I21011", "기타 간이 음식점업", "햄버거", "버거,햄버거,패스트푸드"),
		seed("I21012", "기타 간이 음식점업", "샌드위치/토스트/샐러드", "샌드위치,샐러드,토스트"),
		seed("I21013", "기타 간이 음식점업", "족발/보쌈", "족발,보쌈"),
		seed("I21014", "기타 간이 음식점업", "분식 프랜차이즈", "체인,브랜드분식"),
	}
}

func defaultSynonyms() SynonymTable {
	return SynonymTable{
		"카페":           {"카페", "커피", "디저트", "다방"},
		"초밥/참치":        {"스시", "초밥", "사시미", "참치"},
		"돈까스/우동":       {"돈까스", "돈가스", "우동", "소바", "가츠"},
		"국밥":           {"국밥", "돼지국밥", "소머리국밥"},
		"중국집":          {"중국집", "중식", "짜장면", "짬뽕", "탕수육"},
		"파스타/스테이크":     {"파스타", "스테이크", "이탈리안", "레스토랑"},
		"베트남":          {"쌀국수", "분짜", "반미", "베트남"},
		"태국":           {"팟타이", "똠얌", "태국"},
		"샌드위치/토스트/샐러드": {"샌드위치", "샐러드", "토스트"},
		"햄버거":          {"버거", "햄버거", "패스트푸드"},
		"치킨":           {"치킨", "후라이드", "양념", "닭강정"},
		"분식":           {"분식", "떡볶이", "김밥", "라면", "만두"},
		"고기/구이":        {"삼겹살", "돼지갈비", "소고기", "구이", "숯불", "고깃집"},
		"국/탕/찌개류":      {"찌개", "국", "탕", "해장국", "감자탕", "부대찌개"},
		"피자":           {"피자"},
		"백반/한정식":       {"밥집", "정식", "한식"},
		"멕시칸":          {"타코", "부리또", "멕시코"},
		"인도/네팔":        {"커리", "난", "탄두리", "인도", "네팔"},
	}
}
