package resolve

import "github.com/finnews-io/finnews/internal/models"

// entry is one canonical symbol with its lookup names and aliases.
// Names are the canonical keywords; Aliases cover transliterations and
// shorthand (Korean market users are a first-class audience here).
type entry struct {
	Symbol  string
	Label   string
	Names   []string
	Aliases []string
}

// classOrder is the fixed tie-break sequence for auto-scoped resolution.
var classOrder = []models.AssetClass{
	models.AssetClassCommodity,
	models.AssetClassFX,
	models.AssetClassIndex,
	models.AssetClassEquity,
}

var commodities = []entry{
	{Symbol: "KC=F", Label: "Coffee Futures", Names: []string{"coffee"}, Aliases: []string{"커피"}},
	{Symbol: "CL=F", Label: "WTI Crude Oil Futures", Names: []string{"wti"}, Aliases: []string{"oil", "원유"}},
	{Symbol: "BZ=F", Label: "Brent Crude Oil Futures", Names: []string{"brent"}, Aliases: []string{"브렌트", "브렌트유"}},
	{Symbol: "GC=F", Label: "Gold Futures", Names: []string{"gold"}, Aliases: []string{"금"}},
	{Symbol: "SI=F", Label: "Silver Futures", Names: []string{"silver"}, Aliases: []string{"은"}},
	{Symbol: "HG=F", Label: "Copper Futures", Names: []string{"copper"}, Aliases: []string{"구리"}},
	{Symbol: "NG=F", Label: "Natural Gas Futures", Names: []string{"natgas"}, Aliases: []string{"lng", "천연가스"}},
	{Symbol: "RB=F", Label: "RBOB Gasoline Futures", Names: []string{"gasoline"}, Aliases: []string{"휘발유"}},
	{Symbol: "ZC=F", Label: "Corn Futures", Names: []string{"corn"}, Aliases: []string{"옥수수"}},
	{Symbol: "ZS=F", Label: "Soybean Futures", Names: []string{"soybean"}, Aliases: []string{"대두"}},
	{Symbol: "ZW=F", Label: "Wheat Futures", Names: []string{"wheat"}, Aliases: []string{"밀"}},
	{Symbol: "SB=F", Label: "Sugar Futures", Names: []string{"sugar"}, Aliases: []string{"설탕"}},
	{Symbol: "CC=F", Label: "Cocoa Futures", Names: []string{"cocoa"}, Aliases: []string{"코코아"}},
}

var fxPairs = []entry{
	{Symbol: "DX=F", Label: "US Dollar Index", Names: []string{"dxy"}, Aliases: []string{"달러지수", "달러인덱스"}},
	{Symbol: "EURUSD=X", Label: "EUR/USD", Names: []string{"eurusd"}, Aliases: []string{"유로달러", "유로/달러"}},
	{Symbol: "JPY=X", Label: "USD/JPY", Names: []string{"usdjpy"}, Aliases: []string{"달러엔", "엔화"}},
	{Symbol: "KRW=X", Label: "USD/KRW", Names: []string{"usdkrw"}, Aliases: []string{"krw", "달러원", "달러/원", "원화"}},
}

var indices = []entry{
	{Symbol: "^GSPC", Label: "S&P 500", Names: []string{"s&p500"}, Aliases: []string{"s&p", "spx", "sp500"}},
	{Symbol: "^NDX", Label: "NASDAQ 100", Names: []string{"nasdaq100"}, Aliases: []string{"ndx", "나스닥100"}},
	{Symbol: "^DJI", Label: "Dow Jones Industrial Average", Names: []string{"dow"}, Aliases: []string{"djia", "다우"}},
	{Symbol: "^KS11", Label: "KOSPI", Names: []string{"kospi"}, Aliases: []string{"코스피"}},
	{Symbol: "^KS200", Label: "KOSPI 200", Names: []string{"kospi200"}, Aliases: []string{"코스피200"}},
	{Symbol: "^VIX", Label: "CBOE Volatility Index", Names: []string{"vix"}, Aliases: nil},
}

var equities = []entry{
	{Symbol: "005930.KS", Label: "Samsung Electronics", Names: []string{"삼성전자"}, Aliases: []string{"samsung"}},
	{Symbol: "005935.KS", Label: "Samsung Electronics (Pref)", Names: []string{"삼성전자우"}, Aliases: nil},
	{Symbol: "005380.KS", Label: "Hyundai Motor", Names: []string{"현대차"}, Aliases: []string{"hyundai"}},
	{Symbol: "373220.KS", Label: "LG Energy Solution", Names: []string{"lg에너지솔루션"}, Aliases: nil},
	{Symbol: "035420.KS", Label: "Naver", Names: []string{"네이버"}, Aliases: []string{"naver"}},
	{Symbol: "035720.KS", Label: "Kakao", Names: []string{"카카오"}, Aliases: []string{"kakao"}},
	{Symbol: "000660.KS", Label: "SK Hynix", Names: []string{"sk하이닉스"}, Aliases: []string{"hynix"}},
	{Symbol: "AAPL", Label: "Apple", Names: []string{"apple"}, Aliases: nil},
	{Symbol: "TSLA", Label: "Tesla", Names: []string{"tesla"}, Aliases: nil},
	{Symbol: "MSFT", Label: "Microsoft", Names: []string{"microsoft"}, Aliases: nil},
}

// builtinTables returns the static keyword tables, keyed by asset class.
func builtinTables() map[models.AssetClass][]entry {
	return map[models.AssetClass][]entry{
		models.AssetClassCommodity: commodities,
		models.AssetClassFX:        fxPairs,
		models.AssetClassIndex:     indices,
		models.AssetClassEquity:    equities,
	}
}
