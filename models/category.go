package models

// Category 収支科目とそのサブ科目
// 科目は固定の分類であり、管理画面から追加・変更はできない
type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// categories 収支科目の一覧（表示順）
var categories = []Category{
	{Name: "旅費", Subcategories: []string{"電車", "バス", "タクシー", "航空券", "宿泊費"}},
	{Name: "消耗品費", Subcategories: []string{"文房具", "事務用品", "備品", "日用品"}},
	{Name: "会議費", Subcategories: []string{"会場費", "飲食代", "資料代"}},
	{Name: "交際費", Subcategories: []string{"接待飲食", "贈答品", "慶弔費"}},
	{Name: "通信費", Subcategories: []string{"電話料金", "インターネット", "切手・郵送料", "サーバー利用料"}},
	{Name: "水道光熱費", Subcategories: []string{"電気", "ガス", "水道"}},
	{Name: "地代家賃", Subcategories: []string{"事務所家賃", "駐車場", "レンタルスペース"}},
	{Name: "広告宣伝費", Subcategories: []string{"Web広告", "印刷物", "イベント出展", "ノベルティ"}},
	{Name: "外注費", Subcategories: []string{"デザイン", "開発", "翻訳", "その他業務委託"}},
	{Name: "支払手数料", Subcategories: []string{"振込手数料", "決済手数料", "仲介手数料"}},
	{Name: "新聞図書費", Subcategories: []string{"書籍", "雑誌", "電子書籍", "有料記事"}},
	{Name: "福利厚生費", Subcategories: []string{"健康診断", "社内イベント", "慶弔見舞", "飲料・軽食"}},
	{Name: "修繕費", Subcategories: []string{"設備修理", "機器修理"}},
	{Name: "保険料", Subcategories: []string{"損害保険", "賠償責任保険"}},
	{Name: "租税公課", Subcategories: []string{"印紙税", "登録免許税", "固定資産税"}},
	{Name: "研修費", Subcategories: []string{"セミナー受講料", "資格試験料", "教材費"}},
	{Name: "雑費", Subcategories: []string{"クリーニング", "ごみ処理", "その他"}},
}

// subcategoryIndex 科目名 → サブ科目集合
var subcategoryIndex = func() map[string]map[string]bool {
	idx := make(map[string]map[string]bool, len(categories))
	for _, c := range categories {
		set := make(map[string]bool, len(c.Subcategories))
		for _, s := range c.Subcategories {
			set[s] = true
		}
		idx[c.Name] = set
	}
	return idx
}()

// GetCategories 収支科目の一覧を取得する
func GetCategories() []Category {
	return categories
}

// IsValidCategory 科目名が分類に存在するか
func IsValidCategory(name string) bool {
	_, ok := subcategoryIndex[name]
	return ok
}

// SubcategoriesOf 指定科目のサブ科目一覧を返す。科目が存在しない場合は ok=false
func SubcategoriesOf(category string) ([]string, bool) {
	if _, ok := subcategoryIndex[category]; !ok {
		return nil, false
	}
	for _, c := range categories {
		if c.Name == category {
			return c.Subcategories, true
		}
	}
	return nil, false
}

// IsValidSubcategory サブ科目が科目の選択肢に含まれるか。空のサブ科目は常に有効
func IsValidSubcategory(category, subcategory string) bool {
	if subcategory == "" {
		return true
	}
	set, ok := subcategoryIndex[category]
	if !ok {
		return false
	}
	return set[subcategory]
}
