// Package catalog holds the fixed attribute tables used by listings and
// profiles: position types, venue types, shifts, cuisines, certificates and
// so on. They are presentation configuration, kept as data tables rather
// than language-level enums; the Category field only drives UI grouping and
// is never a validation rule.
package catalog

import "strings"

// Option is one selectable value with its Turkish display label.
type Option struct {
	Value    string
	Label    string
	Category string
}

var PositionTypes = []Option{
	{Value: "garson", Label: "Garson", Category: "service"},
	{Value: "komi", Label: "Komi", Category: "service"},
	{Value: "host", Label: "Host / Hostes", Category: "service"},
	{Value: "kasiyer", Label: "Kasiyer", Category: "service"},
	{Value: "barista", Label: "Barista", Category: "bar"},
	{Value: "bartender", Label: "Bartender", Category: "bar"},
	{Value: "barback", Label: "Barback", Category: "bar"},
	{Value: "asci", Label: "Aşçı", Category: "kitchen"},
	{Value: "asci-yardimcisi", Label: "Aşçı Yardımcısı", Category: "kitchen"},
	{Value: "mutfak-sefi", Label: "Mutfak Şefi", Category: "kitchen"},
	{Value: "pastaci", Label: "Pastacı", Category: "kitchen"},
	{Value: "bulasikci", Label: "Bulaşıkçı", Category: "kitchen"},
	{Value: "kurye", Label: "Kurye", Category: "other"},
	{Value: "temizlik-gorevlisi", Label: "Temizlik Görevlisi", Category: "other"},
	{Value: "isletme-muduru", Label: "İşletme Müdürü", Category: "management"},
	{Value: "vardiya-amiri", Label: "Vardiya Amiri", Category: "management"},
}

var VenueTypes = []Option{
	{Value: "restoran", Label: "Restoran"},
	{Value: "kafe", Label: "Kafe"},
	{Value: "bar", Label: "Bar"},
	{Value: "lokanta", Label: "Lokanta"},
	{Value: "pastane", Label: "Pastane / Fırın"},
	{Value: "fast-food", Label: "Fast Food"},
	{Value: "otel", Label: "Otel"},
	{Value: "kulup", Label: "Gece Kulübü"},
	{Value: "catering", Label: "Catering"},
	{Value: "beach-club", Label: "Beach Club"},
}

var ShiftTypes = []Option{
	{Value: "morning", Label: "Sabah"},
	{Value: "afternoon", Label: "Öğle"},
	{Value: "evening", Label: "Akşam"},
	{Value: "night", Label: "Gece"},
}

var WorkTypes = []Option{
	{Value: "full-time", Label: "Tam Zamanlı"},
	{Value: "part-time", Label: "Yarı Zamanlı"},
	{Value: "seasonal", Label: "Sezonluk"},
	{Value: "extra", Label: "Günlük / Ekstra"},
}

var WorkingDays = []Option{
	{Value: "hafta-ici", Label: "Hafta İçi"},
	{Value: "hafta-sonu", Label: "Hafta Sonu"},
	{Value: "her-gun", Label: "Haftanın Her Günü"},
	{Value: "vardiyali", Label: "Vardiyalı"},
}

var CuisineTypes = []Option{
	{Value: "turk", Label: "Türk Mutfağı"},
	{Value: "kebap", Label: "Kebap / Ocakbaşı"},
	{Value: "deniz-urunleri", Label: "Deniz Ürünleri"},
	{Value: "italyan", Label: "İtalyan"},
	{Value: "fransiz", Label: "Fransız"},
	{Value: "uzakdogu", Label: "Uzak Doğu"},
	{Value: "meksika", Label: "Meksika"},
	{Value: "vejetaryen", Label: "Vejetaryen / Vegan"},
	{Value: "sokak-lezzetleri", Label: "Sokak Lezzetleri"},
	{Value: "dunya", Label: "Dünya Mutfağı"},
}

var CertificateTypes = []Option{
	{Value: "hijyen-belgesi", Label: "Hijyen Belgesi", Category: "mandatory"},
	{Value: "saglik-raporu", Label: "Sağlık Raporu", Category: "mandatory"},
	{Value: "ustalik-belgesi", Label: "Ustalık Belgesi", Category: "professional"},
	{Value: "kalfalik-belgesi", Label: "Kalfalık Belgesi", Category: "professional"},
	{Value: "barista-sertifikasi", Label: "Barista Sertifikası", Category: "professional"},
	{Value: "haccp", Label: "HACCP Eğitimi", Category: "professional"},
	{Value: "ehliyet-a", Label: "A Sınıfı Ehliyet", Category: "driver"},
	{Value: "ehliyet-b", Label: "B Sınıfı Ehliyet", Category: "driver"},
	{Value: "isg-egitimi", Label: "İSG Eğitimi", Category: "safety"},
	{Value: "ilk-yardim", Label: "İlk Yardım Sertifikası", Category: "safety"},
	{Value: "yangin-egitimi", Label: "Yangın Eğitimi", Category: "safety"},
	{Value: "yds", Label: "Yabancı Dil Belgesi", Category: "language"},
	{Value: "diger", Label: "Diğer", Category: "other"},
}

var Benefits = []Option{
	{Value: "yemek", Label: "Yemek"},
	{Value: "servis", Label: "Servis / Yol"},
	{Value: "sigorta", Label: "SGK + Özel Sigorta"},
	{Value: "prim", Label: "Prim"},
	{Value: "bahsis", Label: "Bahşiş"},
	{Value: "konaklama", Label: "Konaklama"},
	{Value: "egitim", Label: "Eğitim Desteği"},
}

var PaymentTypes = []Option{
	{Value: "monthly", Label: "Aylık"},
	{Value: "weekly", Label: "Haftalık"},
	{Value: "daily", Label: "Günlük"},
	{Value: "hourly", Label: "Saatlik"},
}

var ExperienceLevels = []Option{
	{Value: "none", Label: "Deneyimsiz"},
	{Value: "junior", Label: "0-1 Yıl"},
	{Value: "mid", Label: "1-3 Yıl"},
	{Value: "senior", Label: "3-5 Yıl"},
	{Value: "expert", Label: "5+ Yıl"},
}

var UniformPolicies = []Option{
	{Value: "isletme-karsilar", Label: "İşletme Karşılar"},
	{Value: "calisan-karsilar", Label: "Çalışan Karşılar"},
	{Value: "serbest", Label: "Serbest Kıyafet"},
}

var MealPolicies = []Option{
	{Value: "dahil", Label: "Yemek Dahil"},
	{Value: "ucretli", Label: "İndirimli / Ücretli"},
	{Value: "yok", Label: "Yok"},
}

var TipPolicies = []Option{
	{Value: "havuz", Label: "Bahşiş Havuzu"},
	{Value: "bireysel", Label: "Bireysel"},
	{Value: "yok", Label: "Bahşiş Yok"},
}

// districts is a static city -> district table; the posting wizard refreshes
// the district options whenever the selected city changes.
var districts = map[string][]Option{
	"istanbul": {
		{Value: "kadikoy", Label: "Kadıköy"},
		{Value: "besiktas", Label: "Beşiktaş"},
		{Value: "sisli", Label: "Şişli"},
		{Value: "beyoglu", Label: "Beyoğlu"},
		{Value: "uskudar", Label: "Üsküdar"},
		{Value: "bakirkoy", Label: "Bakırköy"},
	},
	"ankara": {
		{Value: "cankaya", Label: "Çankaya"},
		{Value: "kecioren", Label: "Keçiören"},
		{Value: "yenimahalle", Label: "Yenimahalle"},
	},
	"izmir": {
		{Value: "konak", Label: "Konak"},
		{Value: "karsiyaka", Label: "Karşıyaka"},
		{Value: "bornova", Label: "Bornova"},
		{Value: "alsancak", Label: "Alsancak"},
	},
	"antalya": {
		{Value: "muratpasa", Label: "Muratpaşa"},
		{Value: "konyaalti", Label: "Konyaaltı"},
		{Value: "kemer", Label: "Kemer"},
	},
}

// IsValid reports whether value appears in the given table.
func IsValid(table []Option, value string) bool {
	for _, opt := range table {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// LabelFor returns the display label for value, or value itself when unknown.
func LabelFor(table []Option, value string) string {
	for _, opt := range table {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// ByCategory groups a table for display. Order within each group follows the
// table order.
func ByCategory(table []Option) map[string][]Option {
	grouped := make(map[string][]Option)
	for _, opt := range table {
		grouped[opt.Category] = append(grouped[opt.Category], opt)
	}
	return grouped
}

// cityKey folds a city name onto the ASCII-lowercase keys of the districts
// table. ToLower alone is not enough: Turkish 'İ' lowercases to a dotted i
// that never equals plain 'i'.
func cityKey(city string) string {
	var b strings.Builder
	b.Grow(len(city))
	for _, r := range strings.ToLower(strings.TrimSpace(city)) {
		switch r {
		case 'ı', 'i', '̇':
			if r == '̇' {
				continue // combining dot left over from lowercasing İ
			}
			b.WriteRune('i')
		case 'ş':
			b.WriteRune('s')
		case 'ğ':
			b.WriteRune('g')
		case 'ü':
			b.WriteRune('u')
		case 'ö':
			b.WriteRune('o')
		case 'ç':
			b.WriteRune('c')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DistrictsFor returns the district options for a city, empty when the city
// has no table entry. Lookup is case and diacritic insensitive, so the
// wizard's display spelling ("İstanbul") hits the "istanbul" table.
func DistrictsFor(city string) []Option {
	return districts[cityKey(city)]
}
